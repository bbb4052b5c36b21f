package invz

import (
	"strings"
	"testing"
)

func TestTaskTree(t *testing.T) {
	t.Run("Renders All Steps", func(t *testing.T) {
		task := mustTask(t, mustChain(t,
			newAddGenerator().New(addConfig{}),
			newScaleGenerator().New(scaleConfig{Factor: 2}),
			newSubtractGenerator().New(subtractConfig{B: 1}),
		))
		defer task.Close()

		out := task.Tree()
		for _, name := range []string{"task", "add", "scale", "subtract"} {
			if !strings.Contains(out, name) {
				t.Errorf("expected rendering to contain %q:\n%s", name, out)
			}
		}
	})

	t.Run("Marks Invertible Steps", func(t *testing.T) {
		task := mustTask(t, mustChain(t,
			newAddGenerator().New(addConfig{}),
			newScaleGenerator().New(scaleConfig{Factor: 2}),
		))
		defer task.Close()

		out := task.Tree()
		if !strings.Contains(out, "scale <->") {
			t.Errorf("expected invertible marker on scale:\n%s", out)
		}
		if strings.Contains(out, "add <->") {
			t.Errorf("add has no inverse and must not be marked:\n%s", out)
		}
	})
}
