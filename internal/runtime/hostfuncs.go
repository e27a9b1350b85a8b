package runtime

import (
	"context"
	"log/slog"

	"github.com/risor-io/risor/object"
)

// Host is the project surface scripts operate on. Paths are as the project
// knows them; names select the first top-level declaration with that name.
type Host interface {
	Files() []string
	Declarations(path string) ([]Declaration, error)
	IsAmbient(path, name string) (bool, error)
	// ToggleDeclare flips the declare keyword, or sets it when value is
	// non-nil, and returns the resulting state.
	ToggleDeclare(path, name string, value *bool) (bool, error)
	Text(path string) (string, error)
	Save(path string) error
}

// Declaration is the script view of one top-level declaration.
type Declaration struct {
	Name      string
	Kind      string
	Line      int
	Ambient   bool
	Declare   bool
	Exported  bool
	Modifiers []string
}

func (d Declaration) object() object.Object {
	mods := make([]object.Object, 0, len(d.Modifiers))
	for _, m := range d.Modifiers {
		mods = append(mods, object.NewString(m))
	}
	return object.NewMap(map[string]object.Object{
		"name":      object.NewString(d.Name),
		"kind":      object.NewString(d.Kind),
		"line":      object.NewInt(int64(d.Line)),
		"ambient":   object.NewBool(d.Ambient),
		"declare":   object.NewBool(d.Declare),
		"exported":  object.NewBool(d.Exported),
		"modifiers": object.NewList(mods),
	})
}

// makeFilesFn creates "files".
//
// files() → []string
func makeFilesFn(h Host) *object.Builtin {
	return object.NewBuiltin("files", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("files", 0, len(args))
		}
		paths := h.Files()
		out := make([]object.Object, 0, len(paths))
		for _, p := range paths {
			out = append(out, object.NewString(p))
		}
		return object.NewList(out)
	})
}

// makeDeclarationsFn creates "declarations".
//
// declarations(path) → []map
func makeDeclarationsFn(h Host) *object.Builtin {
	return object.NewBuiltin("declarations", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("declarations", 1, len(args))
		}
		path, err := toString(args[0])
		if err != nil {
			return object.Errorf("declarations: path: %v", err)
		}
		decls, err := h.Declarations(path)
		if err != nil {
			return object.Errorf("declarations: %v", err)
		}
		out := make([]object.Object, 0, len(decls))
		for _, d := range decls {
			out = append(out, d.object())
		}
		return object.NewList(out)
	})
}

// makeIsAmbientFn creates "is_ambient".
//
// is_ambient(path, name) → bool
func makeIsAmbientFn(h Host) *object.Builtin {
	return object.NewBuiltin("is_ambient", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("is_ambient", 2, len(args))
		}
		path, name, err := pathAndName(args)
		if err != nil {
			return object.Errorf("is_ambient: %v", err)
		}
		ok, err := h.IsAmbient(path, name)
		if err != nil {
			return object.Errorf("is_ambient: %v", err)
		}
		return object.NewBool(ok)
	})
}

// makeToggleDeclareFn creates "toggle_declare".
//
// toggle_declare(path, name[, value]) → bool
func makeToggleDeclareFn(h Host) *object.Builtin {
	return object.NewBuiltin("toggle_declare", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 && len(args) != 3 {
			return object.Errorf("toggle_declare: expected 2 or 3 arguments, got %d", len(args))
		}
		path, name, err := pathAndName(args)
		if err != nil {
			return object.Errorf("toggle_declare: %v", err)
		}
		var value *bool
		if len(args) == 3 {
			b, ok := args[2].(*object.Bool)
			if !ok {
				return object.Errorf("toggle_declare: value must be a bool, got %s", args[2].Type())
			}
			v := b.Value()
			value = &v
		}
		state, err := h.ToggleDeclare(path, name, value)
		if err != nil {
			return object.Errorf("toggle_declare: %v", err)
		}
		return object.NewBool(state)
	})
}

// makeTextFn creates "text".
//
// text(path) → string
func makeTextFn(h Host) *object.Builtin {
	return object.NewBuiltin("text", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("text", 1, len(args))
		}
		path, err := toString(args[0])
		if err != nil {
			return object.Errorf("text: path: %v", err)
		}
		src, err := h.Text(path)
		if err != nil {
			return object.Errorf("text: %v", err)
		}
		return object.NewString(src)
	})
}

// makeSaveFn creates "save".
//
// save(path) → nil
func makeSaveFn(h Host) *object.Builtin {
	return object.NewBuiltin("save", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("save", 1, len(args))
		}
		path, err := toString(args[0])
		if err != nil {
			return object.Errorf("save: path: %v", err)
		}
		if err := h.Save(path); err != nil {
			return object.Errorf("save: %v", err)
		}
		return object.Nil
	})
}

func pathAndName(args []object.Object) (string, string, error) {
	path, err := toString(args[0])
	if err != nil {
		return "", "", err
	}
	name, err := toString(args[1])
	if err != nil {
		return "", "", err
	}
	return path, name, nil
}

// logObject provides log.Info/Warn/Error methods for Risor scripts.
type logObject struct {
	logger *slog.Logger
}

func (l *logObject) Info(msg string) {
	l.logger.Info(msg)
}

func (l *logObject) Warn(msg string) {
	l.logger.Warn(msg)
}

func (l *logObject) Error(msg string) {
	l.logger.Error(msg)
}
