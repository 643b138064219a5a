// Package deps checks for external executables the service relies on.
package deps

import (
	"fmt"
	"os/exec"

	"github.com/charmbracelet/log"
)

// Checker verifies that required dependencies are available.
type Checker struct {
	dependencies []string
	lookPath     func(string) (string, error)
}

// NewChecker creates a new dependency checker with the given dependencies.
func NewChecker(deps ...string) *Checker {
	return &Checker{dependencies: deps, lookPath: exec.LookPath}
}

// CheckAll verifies all dependencies are available.
// Returns an error listing all missing dependencies.
func (c *Checker) CheckAll() error {
	if missing := c.Missing(); len(missing) > 0 {
		return &MissingDepsError{Dependencies: missing}
	}
	return nil
}

// Missing returns the dependencies that cannot be found.
func (c *Checker) Missing() []string {
	var missing []string
	for _, dep := range c.dependencies {
		if !c.IsAvailable(dep) {
			missing = append(missing, dep)
		}
	}
	return missing
}

// IsAvailable checks if a single dependency is available in PATH or at the
// given path.
func (c *Checker) IsAvailable(name string) bool {
	_, err := c.lookPath(name)
	return err == nil
}

// CheckAndLog checks all dependencies and logs each result.
// Returns the same error as CheckAll.
func (c *Checker) CheckAndLog(logger *log.Logger) error {
	var missing []string

	for _, dep := range c.dependencies {
		if path, err := c.lookPath(dep); err == nil {
			logger.Debug("dependency found", "name", dep, "path", path)
		} else {
			logger.Warn("dependency not found in PATH", "name", dep)
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return &MissingDepsError{Dependencies: missing}
	}
	return nil
}

// MissingDepsError is returned when required dependencies are missing.
type MissingDepsError struct {
	Dependencies []string
}

func (e *MissingDepsError) Error() string {
	return fmt.Sprintf("missing dependencies: %v", e.Dependencies)
}
