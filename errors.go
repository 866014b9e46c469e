package lilac

import (
	"errors"
	"io/fs"

	"github.com/gogpu/lilac/graph"
	"github.com/gogpu/lilac/internal/imageio"
	"github.com/gogpu/lilac/nodes"
	"github.com/gogpu/lilac/render"
	"github.com/gogpu/lilac/script"
	"github.com/gogpu/lilac/vm"
)

// Category groups failures by the phase that detected them.
type Category uint8

// Error categories.
const (
	// CategoryUnknown is returned for nil and unrecognized errors.
	CategoryUnknown Category = iota

	// CategoryParse covers malformed entities: literals, names, syntax.
	CategoryParse

	// CategorySemantic covers stack machine failures: types, names,
	// grouping and capacities.
	CategorySemantic

	// CategoryGraph covers node definition failures.
	CategoryGraph

	// CategoryRender covers render loop misuse and per-pixel failures.
	CategoryRender

	// CategoryIO covers file access and image codec failures.
	CategoryIO

	// CategoryConfig covers the script header and configuration file.
	CategoryConfig
)

func (c Category) String() string {
	switch c {
	case CategoryParse:
		return "parse"
	case CategorySemantic:
		return "semantic"
	case CategoryGraph:
		return "graph"
	case CategoryRender:
		return "render"
	case CategoryIO:
		return "io"
	case CategoryConfig:
		return "config"
	default:
		return "unknown"
	}
}

// classes is checked in order; the first match wins. IO precedes Render so
// that a missing file reported by a preparation callback is an IO failure.
var classes = []struct {
	cat  Category
	errs []error
}{
	{CategoryConfig, []error{
		ErrConfig,
		script.ErrSignature, script.ErrVersion, script.ErrMetacommand,
		script.ErrDuplicateMeta, script.ErrDimensions, script.ErrLimit,
	}},
	{CategoryParse, []error{
		script.ErrSyntax,
		vm.ErrBadNumeric, vm.ErrNonFinite, vm.ErrBadColor, vm.ErrBadString,
		vm.ErrStringPrefix, vm.ErrStringTooLong, vm.ErrUnexpectedEntity,
		vm.ErrInvalidName,
	}},
	{CategorySemantic, []error{
		vm.ErrUnderflow, vm.ErrStackOverflow, vm.ErrTypeMismatch,
		vm.ErrGroupOverflow, vm.ErrGroupBalance, vm.ErrOpenGroup, vm.ErrResult,
		vm.ErrRedeclared, vm.ErrUndeclared, vm.ErrConstant, vm.ErrNamespaceFull,
		vm.ErrUnknownOp, vm.ErrDuplicateOp, vm.ErrTooManyOps, vm.ErrNilOp,
		vm.ErrRegistryFrozen, vm.ErrNotRunning, vm.ErrAlreadyRun,
		nodes.ErrSelectActive, nodes.ErrSelectIdle, nodes.ErrPaletteFull,
		nodes.ErrDuplicateKey, nodes.ErrTextSize,
		nodes.ErrExternalRAM, nodes.ErrExternalDisk,
	}},
	{CategoryGraph, []error{
		graph.ErrDepthRange, graph.ErrDepthLimit, graph.ErrNilEvaluator,
		graph.ErrInvalidNode,
	}},
	{CategoryIO, []error{
		imageio.ErrUnsupportedFormat, imageio.ErrEmptyPath,
		fs.ErrNotExist, fs.ErrPermission, nodes.ErrFont,
	}},
	{CategoryRender, []error{
		graph.ErrNotRendering,
		render.ErrLoopUsed, render.ErrPrepareClosed, render.ErrTooManyPreps,
		render.ErrNilPrep, render.ErrNilTarget, render.ErrEmptyTarget,
		nodes.ErrExternalSize,
	}},
}

// Classify returns the category of err. The result depends only on the
// sentinels wrapped in err, so the same failure always classifies the same
// way.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}
	for _, c := range classes {
		for _, target := range c.errs {
			if errors.Is(err, target) {
				return c.cat
			}
		}
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return CategoryIO
	}
	return CategoryUnknown
}
