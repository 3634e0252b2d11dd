package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/mark3t-rep/internal/common"
	"github.com/dmitrijs2005/mark3t-rep/internal/entityid"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetSecret prints a prompt to w and reads a secret phrase from the user's
// terminal without echo. A newline is printed after the read to keep the UI
// tidy.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetSecret(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter secret phrase: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetMultiline prints a prompt to w and reads multiple lines until an empty
// line is entered (i.e., the user presses Enter twice). The trailing newline
// on each line is trimmed and the collected text is joined with '\n'.
func GetMultiline(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return "", err
	}

	var lines []string
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
		if err != nil {
			break
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// parseSubjectID parses a seller id typed by the user, either decimal or as
// the 0x hex of its 32-byte id.
func parseSubjectID(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return parseEntityID(s)
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, &common.ValidationError{Field: "sellerId", Message: fmt.Sprintf("%q is not a seller id", s)}
	}
	return uint32(v), nil
}

// parseEntityID accepts the 0x hex form of a seller's 32-byte id.
func parseEntityID(s string) (uint32, error) {
	id, err := entityid.ParseHex(s)
	if err != nil {
		return 0, &common.ValidationError{Field: "sellerId", Message: err.Error()}
	}
	v, err := entityid.ToSubject(id)
	if err != nil {
		return 0, &common.ValidationError{Field: "sellerId", Message: err.Error()}
	}
	return v, nil
}

// parseScore parses a score typed by the user. Empty input gives zero and
// is left for rating validation to report; range checks happen there too.
func parseScore(field, s string) (uint8, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, &common.ValidationError{Field: field, Message: fmt.Sprintf("%q is not a number", s)}
	}
	return uint8(v), nil
}
