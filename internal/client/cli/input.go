package cli

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword reads from the terminal without echo; tests replace it.
var readPassword = term.ReadPassword

var errPasswordMismatch = errors.New("passwords do not match")

// GetSimpleText prints "prompt: " to w and returns the next line from reader
// with surrounding space removed. A final line without a newline is accepted.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprintf(w, "%s: ", prompt); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints "prompt: " to w and reads a line from the terminal
// without echo. The caller owns the returned slice and should wipe it.
func GetPassword(w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprintf(w, "%s: ", prompt); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	// The terminal swallowed the user's newline.
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// confirmPassword asks for the password twice and fails when the entries
// differ. Both entries are wiped except the returned one.
func confirmPassword(w io.Writer) ([]byte, error) {
	first, err := getPassword(w, "Password")
	if err != nil {
		return nil, err
	}
	second, err := getPassword(w, "Repeat password")
	if err != nil {
		wipe(first)
		return nil, err
	}
	defer wipe(second)

	if !bytes.Equal(first, second) {
		wipe(first)
		return nil, errPasswordMismatch
	}
	return first, nil
}

func wipe(b []byte) {
	clear(b)
}
