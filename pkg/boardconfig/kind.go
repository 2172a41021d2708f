package boardconfig

import "fmt"

// Kind is the value type of a configuration entry.
type Kind uint8

const (
	KindPin Kind = iota
	KindBool
	KindUint8
	KindUint16
	KindUint32
	KindFloat
	KindString
)

var kindNames = [...]string{
	KindPin:    "pin",
	KindBool:   "bool",
	KindUint8:  "uint8",
	KindUint16: "uint16",
	KindUint32: "uint32",
	KindFloat:  "float",
	KindString: "string",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// MarshalText renders the kind name in JSON and YAML output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
