package shell

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/pavanmanishd/fixedpool"
)

type Command struct {
	Name string
	Args []string
	Line string
}

// Parse splits line into a command name and its arguments. Names are case
// insensitive.
func Parse(line string) (*Command, error) {
	line = strings.TrimSpace(line)
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil, errors.New("empty command")
	}
	return &Command{
		Name: strings.ToLower(parts[0]),
		Args: parts[1:],
		Line: line,
	}, nil
}

func ValidateArgs(cmd *Command, min, max int) error {
	n := len(cmd.Args)
	switch {
	case n < min:
		return errors.Errorf("%s: expected at least %d argument(s), got %d", cmd.Name, min, n)
	case max >= 0 && n > max:
		return errors.Errorf("%s: expected at most %d argument(s), got %d", cmd.Name, max, n)
	}
	return nil
}

// ParseAddr accepts decimal, 0x hex and 0o octal addresses.
func ParseAddr(s string) (fixedpool.Addr, error) {
	n, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, errors.Errorf("invalid address %q", s)
	}
	return fixedpool.Addr(n), nil
}

func ParseInt(s string) (int, error) {
	n, err := strconv.ParseInt(s, 0, 0)
	if err != nil {
		return 0, errors.Errorf("invalid number %q", s)
	}
	return int(n), nil
}
