package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// AuthMethod represents the type of SSH authentication.
type AuthMethod string

const (
	// AuthMethodPassword uses password authentication
	AuthMethodPassword AuthMethod = "password"

	// AuthMethodKey uses private key authentication
	AuthMethodKey AuthMethod = "key"
)

// DefaultRemotePath is where the controller keeps its board file.
const DefaultRemotePath = "/sys/board.txt"

// SFTPConfig holds the connection settings for reading board.txt from a
// remote host.
type SFTPConfig struct {
	// Host is the remote hostname or IP address
	Host string

	// Port is the SSH port (default: 22)
	Port int

	// User is the SSH username
	User string

	// Path is the absolute remote path of the board file
	Path string

	// AuthMethod specifies which authentication method to use
	AuthMethod AuthMethod

	// Password for password-based authentication
	Password string

	// PrivateKeyPath is the path to the private key file
	PrivateKeyPath string

	// PrivateKeyPassphrase is the passphrase for encrypted private keys
	PrivateKeyPassphrase string

	// KnownHostsPath is the path to the known_hosts file
	KnownHostsPath string

	// StrictHostKeyChecking rejects hosts missing from KnownHostsPath.
	// When false any host key is accepted.
	StrictHostKeyChecking bool

	// ConnectionTimeout is the timeout for establishing a connection
	ConnectionTimeout time.Duration
}

// DefaultSFTPConfig returns a config with sensible defaults.
func DefaultSFTPConfig(host, user string) *SFTPConfig {
	return &SFTPConfig{
		Host:                  host,
		Port:                  22,
		User:                  user,
		Path:                  DefaultRemotePath,
		AuthMethod:            AuthMethodKey,
		KnownHostsPath:        filepath.Join(os.Getenv("HOME"), ".ssh", "known_hosts"),
		StrictHostKeyChecking: true,
		ConnectionTimeout:     30 * time.Second,
	}
}

// ParseRemote parses "user@host[:port]:/path" into a default config. The path
// may be omitted ("user@host"), in which case DefaultRemotePath is used.
func ParseRemote(remote string) (*SFTPConfig, error) {
	at := strings.Index(remote, "@")
	if at <= 0 {
		return nil, fmt.Errorf("remote %q: expected user@host[:port]:/path", remote)
	}
	user, rest := remote[:at], remote[at+1:]

	hostPort, remotePath := rest, DefaultRemotePath
	if i := strings.Index(rest, ":/"); i >= 0 {
		hostPort, remotePath = rest[:i], rest[i+1:]
	}

	cfg := DefaultSFTPConfig(hostPort, user)
	if host, port, ok := strings.Cut(hostPort, ":"); ok {
		n, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("remote %q: invalid port %q", remote, port)
		}
		cfg.Host, cfg.Port = host, n
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("remote %q: host is required", remote)
	}
	cfg.Path = path.Clean(remotePath)
	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *SFTPConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("user is required")
	}

	if !path.IsAbs(c.Path) {
		return fmt.Errorf("remote path must be absolute: %q", c.Path)
	}

	switch c.AuthMethod {
	case AuthMethodPassword:
		if c.Password == "" {
			return fmt.Errorf("password is required for password authentication")
		}
	case AuthMethodKey:
		if c.PrivateKeyPath == "" {
			homeDir := os.Getenv("HOME")
			for _, name := range []string{"id_ed25519", "id_rsa", "id_ecdsa"} {
				keyPath := filepath.Join(homeDir, ".ssh", name)
				if _, err := os.Stat(keyPath); err == nil {
					c.PrivateKeyPath = keyPath
					break
				}
			}
			if c.PrivateKeyPath == "" {
				return fmt.Errorf("private key path is required for key authentication and no default key found")
			}
		}
		if _, err := os.Stat(c.PrivateKeyPath); os.IsNotExist(err) {
			return fmt.Errorf("private key file not found: %s", c.PrivateKeyPath)
		}
	default:
		return fmt.Errorf("unsupported auth method: %s", c.AuthMethod)
	}

	if c.ConnectionTimeout <= 0 {
		return fmt.Errorf("connection timeout must be positive")
	}

	return nil
}

// BuildSSHClientConfig creates an ssh.ClientConfig from the config.
func (c *SFTPConfig) BuildSSHClientConfig() (*ssh.ClientConfig, error) {
	var authMethods []ssh.AuthMethod

	switch c.AuthMethod {
	case AuthMethodPassword:
		authMethods = append(authMethods,
			ssh.Password(c.Password),
			ssh.KeyboardInteractive(func(user, instruction string, questions []string, echos []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = c.Password
				}
				return answers, nil
			}),
		)

	case AuthMethodKey:
		keyBytes, err := os.ReadFile(c.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read private key: %w", err)
		}

		var signer ssh.Signer
		if c.PrivateKeyPassphrase != "" {
			signer, err = ssh.ParsePrivateKeyWithPassphrase(keyBytes, []byte(c.PrivateKeyPassphrase))
		} else {
			signer, err = ssh.ParsePrivateKey(keyBytes)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		authMethods = append(authMethods, ssh.PublicKeys(signer))

	default:
		return nil, fmt.Errorf("unsupported auth method: %s", c.AuthMethod)
	}

	var hostKeyCallback ssh.HostKeyCallback
	if c.KnownHostsPath != "" && c.StrictHostKeyChecking {
		var err error
		hostKeyCallback, err = knownhosts.New(c.KnownHostsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load known_hosts: %w", err)
		}
	} else {
		hostKeyCallback = ssh.InsecureIgnoreHostKey()
	}

	return &ssh.ClientConfig{
		User:            c.User,
		Auth:            authMethods,
		HostKeyCallback: hostKeyCallback,
		Timeout:         c.ConnectionTimeout,
	}, nil
}

// Address returns the formatted SSH address (host:port).
func (c *SFTPConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// SFTPOpener reads the board file from a remote host. Every Open dials a new
// connection, which is closed together with the returned reader.
type SFTPOpener struct {
	config *SFTPConfig

	// connect is replaced in tests to skip the SSH handshake.
	connect func(ctx context.Context) (*sftp.Client, io.Closer, error)
}

// NewSFTPOpener validates cfg and returns an opener for it.
func NewSFTPOpener(cfg *SFTPConfig) (*SFTPOpener, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &SourceError{Op: "configure", Location: cfg.Host, Err: err}
	}
	o := &SFTPOpener{config: cfg}
	o.connect = o.dial
	return o, nil
}

func (o *SFTPOpener) dial(ctx context.Context) (*sftp.Client, io.Closer, error) {
	clientConfig, err := o.config.BuildSSHClientConfig()
	if err != nil {
		return nil, nil, err
	}

	address := o.config.Address()
	dialer := net.Dialer{Timeout: o.config.ConnectionTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, nil, err
	}

	c, chans, reqs, err := ssh.NewClientConn(conn, address, clientConfig)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	client := ssh.NewClient(c, chans, reqs)

	sc, err := sftp.NewClient(client)
	if err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to start sftp session: %w", err)
	}
	return sc, client, nil
}

// Open connects and opens the remote file for reading.
func (o *SFTPOpener) Open(ctx context.Context) (io.ReadCloser, error) {
	sc, conn, err := o.connect(ctx)
	if err != nil {
		return nil, &SourceError{Op: "connect", Location: o.String(), Err: err}
	}

	f, err := sc.Open(o.config.Path)
	if err != nil {
		_ = sc.Close()
		if conn != nil {
			_ = conn.Close()
		}
		return nil, &SourceError{Op: "open", Location: o.String(), Err: err}
	}
	return &remoteFile{File: f, client: sc, conn: conn}, nil
}

func (o *SFTPOpener) String() string {
	return fmt.Sprintf("sftp://%s@%s%s", o.config.User, o.config.Address(), o.config.Path)
}

type remoteFile struct {
	*sftp.File
	client *sftp.Client
	conn   io.Closer
}

func (f *remoteFile) Close() error {
	errs := []error{f.File.Close(), f.client.Close()}
	if f.conn != nil {
		errs = append(errs, f.conn.Close())
	}
	return errors.Join(errs...)
}
