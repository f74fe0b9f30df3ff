// Package shell implements the poolctl command interpreter over a SafePool.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/pavanmanishd/fixedpool"
)

const prompt = "pool> "

var commandNames = []string{"alloc", "free", "put", "get", "del", "dump", "stats", "help", "quit", "exit"}

type Shell struct {
	pool *fixedpool.SafePool
	log  logrus.FieldLogger
}

func New(pool *fixedpool.SafePool, log logrus.FieldLogger) *Shell {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Shell{pool: pool, log: log.WithField("component", "shell")}
}

func (s *Shell) Execute(cmd *Command) Result {
	s.log.WithField("command", cmd.Line).Debug("execute")

	switch cmd.Name {
	case "help", "?":
		return HelpResult{}
	case "quit", "exit":
		return ExitResult{}
	case "alloc":
		return s.alloc(cmd)
	case "free":
		return s.free(cmd)
	case "put":
		return s.put(cmd)
	case "get":
		return s.get(cmd)
	case "del":
		return s.del(cmd)
	case "dump":
		return DumpResult{Pool: s.pool}
	case "stats":
		return StatsResult{Metrics: s.pool.Metrics()}
	default:
		return ErrorResult{Err: "unknown command: " + cmd.Name}
	}
}

// ExecLine parses and runs a single line.
func (s *Shell) ExecLine(line string) Result {
	cmd, err := Parse(line)
	if err != nil {
		return ErrorResult{Err: err.Error()}
	}
	return s.Execute(cmd)
}

func (s *Shell) alloc(cmd *Command) Result {
	if err := ValidateArgs(cmd, 1, 2); err != nil {
		return ErrorResult{Err: err.Error()}
	}
	size, err := ParseInt(cmd.Args[0])
	if err != nil {
		return ErrorResult{Err: err.Error()}
	}
	align := 1
	if len(cmd.Args) == 2 {
		if align, err = ParseInt(cmd.Args[1]); err != nil {
			return ErrorResult{Err: err.Error()}
		}
		if align <= 0 || align&(align-1) != 0 {
			return ErrorResult{Err: fmt.Sprintf("alignment %d is not a power of two", align)}
		}
	}

	addr, ok := s.pool.Allocate(size, align)
	if !ok {
		return ErrorResult{Err: errors.Wrapf(fixedpool.ErrOutOfMemory,
			"alloc %d bytes aligned to %d", size, align).Error()}
	}
	return AddrResult{Addr: addr}
}

func (s *Shell) free(cmd *Command) Result {
	if err := ValidateArgs(cmd, 1, 2); err != nil {
		return ErrorResult{Err: err.Error()}
	}
	addr, err := ParseAddr(cmd.Args[0])
	if err != nil {
		return ErrorResult{Err: err.Error()}
	}
	size := 0
	if len(cmd.Args) == 2 {
		if size, err = ParseInt(cmd.Args[1]); err != nil {
			return ErrorResult{Err: err.Error()}
		}
	}

	// raw deallocation is silent; compare entry counts to report a no-op
	err = s.pool.Do(func(p *fixedpool.Pool) error {
		before := p.NumEntries()
		p.DeallocateSize(addr, size)
		if p.NumEntries() == before {
			return errors.Errorf("nothing freed at 0x%x", uintptr(addr))
		}
		return nil
	})
	if err != nil {
		return ErrorResult{Err: err.Error()}
	}
	return OKResult{}
}

func (s *Shell) put(cmd *Command) Result {
	if err := ValidateArgs(cmd, 1, -1); err != nil {
		return ErrorResult{Err: err.Error()}
	}
	vt, err := lookupType(cmd.Args[0])
	if err != nil {
		return ErrorResult{Err: err.Error()}
	}
	if err := ValidateArgs(cmd, vt.args+1, vt.args+1); err != nil {
		return ErrorResult{Err: err.Error()}
	}
	addr, err := vt.put(s.pool, cmd.Args[1:])
	if err != nil {
		return ErrorResult{Err: err.Error()}
	}
	return AddrResult{Addr: addr}
}

func (s *Shell) get(cmd *Command) Result {
	vt, addr, err := s.typedArgs(cmd)
	if err != nil {
		return ErrorResult{Err: err.Error()}
	}
	v, err := vt.get(s.pool, addr)
	if err != nil {
		return ErrorResult{Err: err.Error()}
	}
	return ValueResult{Value: v}
}

func (s *Shell) del(cmd *Command) Result {
	vt, addr, err := s.typedArgs(cmd)
	if err != nil {
		return ErrorResult{Err: err.Error()}
	}
	if err := vt.del(s.pool, addr); err != nil {
		return ErrorResult{Err: err.Error()}
	}
	return OKResult{}
}

func (s *Shell) typedArgs(cmd *Command) (valueType, fixedpool.Addr, error) {
	if err := ValidateArgs(cmd, 2, 2); err != nil {
		return valueType{}, 0, err
	}
	vt, err := lookupType(cmd.Args[0])
	if err != nil {
		return valueType{}, 0, err
	}
	addr, err := ParseAddr(cmd.Args[1])
	return vt, addr, err
}

// Run executes commands read from r, one per line, writing results to w.
// Blank lines and lines starting with '#' are skipped. A failing command does
// not stop the script.
func (s *Shell) Run(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		result := s.ExecLine(line)
		if result.IsExit() {
			return nil
		}
		result.Print(w)
	}
	return scanner.Err()
}

// Interactive runs a line-edited REPL on the terminal until quit, EOF or
// Ctrl-C. History is loaded from and saved to historyPath when it is set.
func (s *Shell) Interactive(historyPath string, w io.Writer) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(complete)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}

	for {
		input, err := line.Prompt(prompt)
		if err == liner.ErrPromptAborted || err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "read input")
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)

		result := s.ExecLine(input)
		if result.IsExit() {
			break
		}
		result.Print(w)
	}

	if historyPath == "" {
		return nil
	}
	f, err := os.Create(historyPath)
	if err != nil {
		s.log.WithError(err).Warn("cannot save history")
		return nil
	}
	defer f.Close()
	_, err = line.WriteHistory(f)
	return err
}

func complete(line string) []string {
	var out []string
	for _, name := range commandNames {
		if strings.HasPrefix(name, strings.ToLower(line)) {
			out = append(out, name)
		}
	}
	return out
}
