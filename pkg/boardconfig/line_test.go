package boardconfig

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Line
	}{
		{"empty", "", Line{Kind: LineEmpty}},
		{"blank", " \t  ", Line{Kind: LineEmpty}},
		{"hash comment", "# lpc.board = rearm", Line{Kind: LineComment}},
		{"slash comment", "  // note", Line{Kind: LineComment}},
		{"equals", "lpc.board = rearm", Line{Kind: LineScalar, Key: "lpc.board", Value: "rearm"}},
		{"no spaces", "lpc.board=rearm", Line{Kind: LineScalar, Key: "lpc.board", Value: "rearm"}},
		{"whitespace only", "lpc.board\trearm", Line{Kind: LineScalar, Key: "lpc.board", Value: "rearm"}},
		{"several equals", "key == = 5", Line{Kind: LineScalar, Key: "key", Value: "5"}},
		{"leading blanks", "   key = 5", Line{Kind: LineScalar, Key: "key", Value: "5"}},
		{"trailing comment", "key = 5 // five", Line{Kind: LineScalar, Key: "key", Value: "5"}},
		{"semicolon", "key = 5;", Line{Kind: LineScalar, Key: "key", Value: "5"}},
		{"slash ends value", "key = 1.23/x", Line{Kind: LineScalar, Key: "key", Value: "1.23"}},
		{"value stops at blank", "key = a b", Line{Kind: LineScalar, Key: "key", Value: "a"}},
		{"missing value", "key", Line{Kind: LineScalar, Key: "key"}},
		{"missing value after equals", "key = ", Line{Kind: LineScalar, Key: "key"}},
		{"array", "pins = { 1.2, 1.3 }", Line{Kind: LineArray, Key: "pins", Body: " 1.2, 1.3 }"}},
		{"array no blanks", "pins={1.2}", Line{Kind: LineArray, Key: "pins", Body: "1.2}"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParseLine(tt.text)); diff != "" {
				t.Errorf("ParseLine(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestSplitArray(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		capacity int
		want     []string
		wantErr  error
	}{
		{"commas", " 0.23, 0.24, 0.25 }", 3, []string{"0.23", "0.24", "0.25"}, nil},
		{"blanks", "0.23 0.24\t0.25}", 3, []string{"0.23", "0.24", "0.25"}, nil},
		{"mixed", "a,b , c }", 4, []string{"a", "b", "c"}, nil},
		{"double comma", "a,,b}", 3, []string{"a", "", "b"}, nil},
		{"double comma with blanks", "a, , b }", 3, []string{"a", "", "b"}, nil},
		{"leading comma", ",a}", 2, []string{"", "a"}, nil},
		{"trailing comma", "a,}", 2, []string{"a"}, nil},
		{"trailing double comma", "a,,}", 2, []string{"a", ""}, nil},
		{"empty values count toward capacity", "a,,,b}", 3, nil, ErrArrayOverflow},
		{"closing inline", "a,b}", 2, []string{"a", "b"}, nil},
		{"empty", "}", 3, []string{}, nil},
		{"empty with blanks", "   }", 3, []string{}, nil},
		{"trailing text ignored", "a } # comment", 1, []string{"a"}, nil},
		{"unterminated", " a, b", 3, nil, ErrUnterminatedArray},
		{"comment before close", " a # b }", 3, nil, ErrUnterminatedArray},
		{"slash ends token", " a/ }", 3, nil, ErrUnterminatedArray},
		{"semicolon before close", " a; }", 3, nil, ErrUnterminatedArray},
		{"overflow", "a b c d }", 3, nil, ErrArrayOverflow},
		{"overflow before unterminated", "a b c d", 3, nil, ErrArrayOverflow},
		{"exact capacity", "a b c }", 3, []string{"a", "b", "c"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := splitArray(tt.body, tt.capacity)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLineReader(t *testing.T) {
	long := strings.Repeat("x", 200)
	input := "a = 1\r\n\nb = 2\n" + long + "\nlast"

	lr := NewLineReader(strings.NewReader(input))

	var got []string
	var truncated []bool
	for {
		line, err := lr.ReadLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, line)
		truncated = append(truncated, lr.Truncated())
	}

	want := []string{"a = 1", "", "b = 2", long[:MaxLineLength-1], "last"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{false, false, false, true, false}, truncated); diff != "" {
		t.Errorf("truncation flags mismatch (-want +got):\n%s", diff)
	}

	if _, err := lr.ReadLine(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF after end, got %v", err)
	}
}

func TestLineReaderDiscardsOverflow(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "long line then entry",
			input: strings.Repeat("y", 64*1024) + "\nlpc.board = rearm\n",
			want:  []string{strings.Repeat("y", MaxLineLength-1), "lpc.board = rearm"},
		},
		{
			name:  "long last line",
			input: "a = 1\n" + strings.Repeat("z", 4096),
			want:  []string{"a = 1", strings.Repeat("z", MaxLineLength-1)},
		},
		{
			name:  "line filling the buffer exactly",
			input: strings.Repeat("w", readerSize-1) + "\nb = 2\n",
			want:  []string{strings.Repeat("w", MaxLineLength-1), "b = 2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lr := NewLineReader(strings.NewReader(tt.input))
			if lr.r.Size() != readerSize {
				t.Fatalf("expected buffer of %d bytes, got %d", readerSize, lr.r.Size())
			}

			var got []string
			for {
				line, err := lr.ReadLine()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				got = append(got, line)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("lines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
