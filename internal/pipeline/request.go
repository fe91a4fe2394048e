package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/user/drone_analyzer_go/internal/parser"
)

// Mode selects between a single dataset and a comparison of simulations.
type Mode int

const (
	ModeSimple Mode = iota + 1
	ModeComplete
)

const (
	MinSimulations = 2
	MaxSimulations = 5
)

func (m Mode) String() string {
	switch m {
	case ModeSimple:
		return "simple"
	case ModeComplete:
		return "complete"
	}
	return "unknown"
}

// ParseMode accepts the mode names used by the front ends.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simple", "simples":
		return ModeSimple, nil
	case "complete", "completa":
		return ModeComplete, nil
	}
	return 0, fmt.Errorf("unknown analysis mode '%s'", s)
}

// Upload is one CSV file supplied by the user.
type Upload struct {
	Name    string
	Content []byte
}

// Simulation is a labelled group of uploads.
type Simulation struct {
	Name  string
	Files []Upload
}

// Request is one analysis pass.
type Request struct {
	ID          uuid.UUID
	Mode        Mode
	Simulations []Simulation
}

// NewSimpleRequest wraps the uploads of a single, unnamed simulation.
func NewSimpleRequest(files []Upload) Request {
	return Request{
		ID:          uuid.New(),
		Mode:        ModeSimple,
		Simulations: []Simulation{{Files: files}},
	}
}

// NewCompleteRequest compares the given simulations in order.
func NewCompleteRequest(sims []Simulation) Request {
	return Request{
		ID:          uuid.New(),
		Mode:        ModeComplete,
		Simulations: sims,
	}
}

// ErrInvalidRequest is matched by every *ValidationError.
var ErrInvalidRequest = errors.New("invalid analysis request")

// ValidationError lists every problem found in a request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidRequest, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}

// ValidateRequest checks the request shape and every upload before any file is
// parsed. Files whose name matches no dataset kind pass; they are reported when
// processed.
func ValidateRequest(req Request) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	switch req.Mode {
	case ModeSimple:
		if len(req.Simulations) != 1 {
			add("simple mode takes one simulation, got %d", len(req.Simulations))
		}
	case ModeComplete:
		if n := len(req.Simulations); n < MinSimulations || n > MaxSimulations {
			add("complete mode takes %d to %d simulations, got %d", MinSimulations, MaxSimulations, n)
		}
		seen := make(map[string]int)
		for i, sim := range req.Simulations {
			name := strings.TrimSpace(sim.Name)
			if name == "" {
				add("simulation %d has no name", i+1)
				continue
			}
			if j, dup := seen[name]; dup {
				add("simulations %d and %d are both named '%s'", j+1, i+1, name)
				continue
			}
			seen[name] = i
		}
	default:
		add("unknown analysis mode %d", int(req.Mode))
	}

	for i, sim := range req.Simulations {
		if len(sim.Files) == 0 {
			add("simulation %d has no files", i+1)
		}
		for _, f := range sim.Files {
			if len(f.Content) == 0 {
				add("file '%s' is empty", f.Name)
			}
			if _, err := parser.KindFromFilename(f.Name); err != nil {
				add("%v", err)
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
