package account

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

//go:embed providers.yaml
var defaultProvidersYAML []byte

// Providers is the allow-list of card issuers. Lookups ignore case and
// surrounding whitespace and return the canonical spelling.
type Providers struct {
	names []string
	index map[string]string
}

type providersFile struct {
	Providers []string `yaml:"providers"`
}

// DefaultProviders returns the built-in catalog.
func DefaultProviders() *Providers {
	p, err := parseProviders(defaultProvidersYAML)
	if err != nil {
		panic(fmt.Sprintf("account: embedded providers.yaml: %v", err))
	}
	return p
}

// LoadProviders reads a YAML catalog of the form {providers: [...]}.
func LoadProviders(r io.Reader) (*Providers, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Join(ErrInvalidProviders, err)
	}
	return parseProviders(data)
}

// LoadProvidersFile reads a catalog from path. An empty path yields the default catalog.
func LoadProvidersFile(path string) (*Providers, error) {
	if path == "" {
		return DefaultProviders(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidProviders, err)
	}
	defer func() { _ = f.Close() }()
	return LoadProviders(f)
}

func parseProviders(data []byte) (*Providers, error) {
	var file providersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Join(ErrInvalidProviders, err)
	}

	p := &Providers{index: make(map[string]string, len(file.Providers))}
	for _, name := range file.Providers {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := foldKey(name)
		if _, dup := p.index[key]; dup {
			continue
		}
		p.index[key] = name
		p.names = append(p.names, name)
	}
	if len(p.names) == 0 {
		return nil, fmt.Errorf("%w: no providers listed", ErrInvalidProviders)
	}
	return p, nil
}

// Canonical returns the catalog spelling of name.
func (p *Providers) Canonical(name string) (string, bool) {
	canonical, ok := p.index[foldKey(name)]
	return canonical, ok
}

// Names returns the providers in catalog order.
func (p *Providers) Names() []string {
	return append([]string(nil), p.names...)
}

func foldKey(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
