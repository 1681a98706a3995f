package arch_test

import (
	"path/filepath"
	"testing"
)

// layers assigns each internal package to a numeric layer. Lower layers are
// more foundational; higher layers may depend on lower ones but not vice versa.
// A package at layer N may only import packages at layer N or below.
var layers = map[string]int{
	"config":    0,
	"graph":     0,
	"history":   0,
	"report":    0,
	"telemetry": 0,
	"watch":     0,

	"rank": 1,
	"ui":   1,
}

// TestDependencyLayering verifies that no internal package imports a package
// from a higher layer, enforcing the project's dependency DAG.
func TestDependencyLayering(t *testing.T) {
	t.Parallel()

	dir := internalDirPath(t)

	for _, pkg := range internalPackages(t) {
		importerLayer, ok := layers[pkg]
		if !ok {
			// Unknown packages are caught by TestNoUnknownPackages.
			continue
		}

		imports := importsOf(t, filepath.Join(dir, pkg))
		for _, imp := range imports {
			importedLayer, ok := layers[imp]
			if !ok {
				continue
			}

			if importerLayer >= importedLayer {
				// Legal: same layer or importing from below.
				continue
			}

			t.Errorf("layer violation: %s (layer %d) imports %s (layer %d)",
				pkg, importerLayer, imp, importedLayer)
		}
	}
}

// TestNoUnknownPackages verifies that every internal package (excluding
// arch_test) has an assigned layer. This forces developers to place new
// packages in the dependency DAG.
func TestNoUnknownPackages(t *testing.T) {
	t.Parallel()

	for _, pkg := range internalPackages(t) {
		if _, ok := layers[pkg]; !ok {
			t.Errorf("package %s has no layer assignment; add it to the layers map", pkg)
		}
	}
}

// TestFoundationPackagesStandAlone verifies that layer-0 packages import no
// other internal packages at all, keeping them reusable in isolation.
func TestFoundationPackagesStandAlone(t *testing.T) {
	t.Parallel()

	dir := internalDirPath(t)

	for pkg, layer := range layers {
		if layer != 0 {
			continue
		}
		if imports := importsOf(t, filepath.Join(dir, pkg)); len(imports) > 0 {
			t.Errorf("layer-0 package %s imports internal packages %v, want none", pkg, imports)
		}
	}
}
