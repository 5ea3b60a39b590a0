// Package sweep builds the parameter cross product that drives a benchmark
// run. A sweep is every combination of process count, sample count,
// dimensionality and neighbor count, repeated a fixed number of times.
package sweep

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrEmptyList is returned when a parameter list has no values.
var ErrEmptyList = errors.New("parameter list is empty")

// Combination is a single run configuration.
type Combination struct {
	NumProcessors int `json:"num_processors"`
	N             int `json:"n"`
	D             int `json:"d"`
	K             int `json:"k"`
}

// Valid reports whether the combination can be run. The sample count
// must exceed the neighbor count.
func (c Combination) Valid() bool {
	return c.N > c.K
}

// Config controls which combinations a sweep visits.
type Config struct {
	Binary        string `yaml:"binary" validate:"required"`
	Dataset       string `yaml:"dataset" validate:"required"`
	Repetitions   int    `yaml:"repetitions" validate:"gte=1"`
	NumProcessors []int  `yaml:"num_processors" validate:"min=1,dive,gte=1"`
	N             []int  `yaml:"n" validate:"min=1,dive,gte=1"`
	D             []int  `yaml:"d" validate:"min=1,dive,gte=1"`
	K             []int  `yaml:"k" validate:"min=1,dive,gte=0"`
}

// DefaultConfig returns the sweep used when no file or flags say otherwise.
func DefaultConfig() Config {
	return Config{
		Binary:        "bin/mpi",
		Dataset:       "datasets/mnist_test.csv",
		Repetitions:   5,
		NumProcessors: []int{1, 4},
		N:             []int{2000},
		D:             []int{8, 16, 32, 64, 128},
		K:             []int{5},
	}
}

// Load reads a YAML sweep file on top of DefaultConfig. Keys absent
// from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read sweep file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse sweep file %s: %w", path, err)
	}

	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the config. Empty parameter lists wrap ErrEmptyList.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate sweep config: %w", err)
	}

	for _, fe := range verrs {
		if fe.Tag() == "min" && fe.Kind() == reflect.Slice {
			return fmt.Errorf("%s: %w", fe.Field(), ErrEmptyList)
		}
	}

	return fmt.Errorf("invalid sweep config: %w", verrs)
}

// Combinations returns the cross product of the parameter lists with
// the process count varying slowest and k fastest. Combinations where
// n <= k are left out.
func (c Config) Combinations() []Combination {
	combos := make([]Combination, 0,
		len(c.NumProcessors)*len(c.N)*len(c.D)*len(c.K))

	for _, np := range c.NumProcessors {
		for _, n := range c.N {
			for _, d := range c.D {
				for _, k := range c.K {
					combo := Combination{NumProcessors: np, N: n, D: d, K: k}
					if !combo.Valid() {
						continue
					}

					combos = append(combos, combo)
				}
			}
		}
	}

	return combos
}

// Runs returns the total number of invocations the sweep will make.
func (c Config) Runs() int {
	return len(c.Combinations()) * c.Repetitions
}
