// Package storagetest provides a conformance test suite for storage.Provider
// implementations.
//
// A backend package runs the suite from its own tests:
//
//	func TestConformance(t *testing.T) {
//	    storagetest.TestSuite(t, func(t *testing.T) storage.Provider {
//	        p, err := disk.New(t.TempDir())
//	        require.NoError(t, err)
//	        return p
//	    })
//	}
//
// Every subtest gets a fresh provider from the factory, so tests may create
// and delete anything, including the root container.
package storagetest

import (
	"testing"

	"github.com/jmgilman/go/storage"
)

// Factory returns a fresh, empty provider for one subtest.
type Factory func(t *testing.T) storage.Provider

// Config adapts the suite to a backend.
type Config struct {
	// InvalidPaths lists paths the provider must reject with CodeInvalidPath.
	InvalidPaths []storage.Path

	// InvalidNames lists file names the provider must reject with
	// CodeInvalidArgument, in addition to the empty name.
	InvalidNames []string

	// SkipTests lists test names to skip.
	// Format: "Group/SubTest" (e.g., "Container/OpenWriteConcurrentCreate").
	SkipTests []string
}

// DefaultConfig returns the configuration shared by every backend in this
// module: '/' is never a valid segment or file name and "." and ".." are
// rejected.
func DefaultConfig() Config {
	return Config{
		InvalidPaths: []storage.Path{
			storage.MustPath("/"),
			storage.MustPath("a/b"),
			storage.MustPath("ok", "a/b"),
			storage.MustPath(".."),
			storage.MustPath("a", ".."),
			storage.MustPath("."),
		},
		InvalidNames: []string{"/", "a/b", "..", "."},
	}
}

// TestSuite runs the suite with DefaultConfig.
func TestSuite(t *testing.T, newProvider Factory) {
	TestSuiteWithConfig(t, newProvider, DefaultConfig())
}

// TestSuiteWithConfig runs all conformance tests.
func TestSuiteWithConfig(t *testing.T, newProvider Factory, config Config) {
	groups := []struct {
		name string
		run  func(t *testing.T, newProvider Factory, config Config)
	}{
		{"Provider", TestProvider},
		{"Container", TestContainer},
		{"Helpers", TestHelpers},
		{"Cancellation", TestCancellation},
	}

	for _, g := range groups {
		t.Run(g.name, func(t *testing.T) {
			if config.skip(g.name) {
				t.Skip("Skipped by provider configuration")
			}
			g.run(t, newProvider, config)
		})
	}
}

func (c Config) skip(name string) bool {
	for _, s := range c.SkipTests {
		if s == name {
			return true
		}
	}
	return false
}

// runAll runs cases as subtests of group, honoring SkipTests.
func runAll(t *testing.T, group string, config Config, cases map[string]func(t *testing.T)) {
	for _, name := range sortedKeys(cases) {
		fn := cases[name]
		t.Run(name, func(t *testing.T) {
			if config.skip(group + "/" + name) {
				t.Skip("Skipped by provider configuration")
			}
			fn(t)
		})
	}
}
