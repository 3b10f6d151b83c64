package flowdemo

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	appfs "github.com/trezcool/masomo-landing/fs"
)

// TotalSteps is the number of steps every persona flow has.
const TotalSteps = 5

const defaultContentPath = "content/flow.yaml"

var (
	ErrInvalidContent = errors.New("invalid flow content")

	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

type (
	Detail struct {
		Icon string `json:"icon" yaml:"icon"`
		Text string `json:"text" yaml:"text"`
	}

	// StepContent is the immutable content of one step.
	StepContent struct {
		Title       string   `json:"title" yaml:"title"`
		Description string   `json:"description" yaml:"description"`
		Details     []Detail `json:"details" yaml:"details"`
	}

	// ContentRepository resolves the content of a persona's steps.
	ContentRepository interface {
		Get(p Persona, step int) (StepContent, bool)
		Steps(p Persona) ([]StepContent, bool)
		Personas() []Persona
	}

	// Catalog is a read-only ContentRepository loaded from YAML.
	Catalog struct {
		steps map[Persona][]StepContent
	}

	contentDocument struct {
		Personas map[Persona][]StepContent `yaml:"personas"`
	}
)

// ValidStep reports whether step is in [1, TotalSteps].
func ValidStep(step int) bool { return step >= 1 && step <= TotalSteps }

func (c *Catalog) Get(p Persona, step int) (StepContent, bool) {
	steps, ok := c.steps[p]
	if !ok || !ValidStep(step) {
		return StepContent{}, false
	}
	return steps[step-1], true
}

func (c *Catalog) Steps(p Persona) ([]StepContent, bool) {
	steps, ok := c.steps[p]
	if !ok {
		return nil, false
	}
	cp := make([]StepContent, len(steps))
	copy(cp, steps)
	return cp, true
}

func (c *Catalog) Personas() []Persona {
	ps := make([]Persona, 0, len(c.steps))
	for _, p := range Personas {
		if _, ok := c.steps[p]; ok {
			ps = append(ps, p)
		}
	}
	return ps
}

// Dump writes the catalog as a YAML document LoadContent accepts.
func (c *Catalog) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(contentDocument{Personas: c.steps}); err != nil {
		return errors.Wrap(err, "encoding flow content")
	}
	return errors.Wrap(enc.Close(), "encoding flow content")
}

// LoadContent parses a YAML content document.
// Every persona must be known and have exactly TotalSteps steps with a title.
func LoadContent(r io.Reader) (*Catalog, error) {
	var doc contentDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding flow content")
	}
	if len(doc.Personas) == 0 {
		return nil, errors.Wrap(ErrInvalidContent, "no personas")
	}

	for p, steps := range doc.Personas {
		if !p.Valid() {
			return nil, errors.Wrap(ErrInvalidContent, fmt.Sprintf("unknown persona %q", p))
		}
		if len(steps) != TotalSteps {
			return nil, errors.Wrap(ErrInvalidContent, fmt.Sprintf("persona %q has %d steps, want %d", p, len(steps), TotalSteps))
		}
		for i, step := range steps {
			if step.Title == "" {
				return nil, errors.Wrap(ErrInvalidContent, fmt.Sprintf("persona %q step %d has no title", p, i+1))
			}
		}
	}
	return &Catalog{steps: doc.Personas}, nil
}

// LoadContentFile loads a content document from disk.
func LoadContentFile(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening flow content")
	}
	//goland:noinspection GoUnhandledErrorResult
	defer file.Close()
	return LoadContent(file)
}

// DefaultContent returns the built-in catalog embedded in the binary.
func DefaultContent() *Catalog {
	defaultCatalogOnce.Do(func() {
		file, err := appfs.FS.Open(defaultContentPath)
		if err != nil {
			panic(errors.Wrap(err, "opening built-in flow content"))
		}
		//goland:noinspection GoUnhandledErrorResult
		defer file.Close()

		cat, err := LoadContent(file)
		if err != nil {
			panic(err)
		}
		defaultCatalog = cat
	})
	return defaultCatalog
}
