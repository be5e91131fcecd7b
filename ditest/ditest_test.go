package ditest_test

import (
	"testing"

	"github.com/kbukum/depkit/di"
	"github.com/kbukum/depkit/ditest"
)

type nameKey struct{}

func (nameKey) DefaultValue() string { return "default" }

var name = di.FieldOf[nameKey, string]()

func TestReset(t *testing.T) {
	name.Set(di.Shared(), "leaked")
	defer di.ResetShared()

	t.Run("fresh container", func(t *testing.T) {
		c := ditest.Reset(t)
		if di.Shared() != c {
			t.Fatal("expected Reset to install the returned container")
		}
		if got := name.Current(); got != "default" {
			t.Errorf("expected default, got %q", got)
		}
		name.Set(c, "inside")
	})

	if got := name.Current(); got != "leaked" {
		t.Errorf("expected previous container restored, got %q", got)
	}
}

func TestOverride(t *testing.T) {
	di.ResetShared()
	name.Set(di.Shared(), "base")
	defer di.ResetShared()

	t.Run("override on top of base", func(t *testing.T) {
		c := ditest.Override(t, func(c *di.Container) {
			name.Set(c, "override")
		})
		if got := name.Current(); got != "override" {
			t.Errorf("expected override, got %q", got)
		}

		name.Set(c, "later")
		if got := name.Current(); got != "later" {
			t.Errorf("expected later write to be visible, got %q", got)
		}
	})

	if got := name.Current(); got != "base" {
		t.Errorf("expected base restored after the subtest, got %q", got)
	}
}

func TestOverrideNested(t *testing.T) {
	di.ResetShared()
	defer di.ResetShared()

	t.Run("outer", func(t *testing.T) {
		ditest.Override(t, func(c *di.Container) { name.Set(c, "outer") })

		t.Run("inner", func(t *testing.T) {
			ditest.Override(t, func(c *di.Container) { name.Set(c, "inner") })
			if got := name.Current(); got != "inner" {
				t.Errorf("expected inner, got %q", got)
			}
		})

		if got := name.Current(); got != "outer" {
			t.Errorf("expected outer after inner cleanup, got %q", got)
		}
	})

	if got := name.Current(); got != "default" {
		t.Errorf("expected default after all cleanups, got %q", got)
	}
}

func TestUse(t *testing.T) {
	di.ResetShared()
	defer di.ResetShared()
	before := di.Shared()

	t.Run("explicit container", func(t *testing.T) {
		c := di.NewContainer()
		name.Set(c, "explicit")
		ditest.Use(t, c)
		if got := name.Current(); got != "explicit" {
			t.Errorf("expected explicit, got %q", got)
		}
	})

	t.Run("nil container", func(t *testing.T) {
		c := ditest.Use(t, nil)
		if c == nil || di.Shared() != c {
			t.Error("expected an empty container to be installed")
		}
	})

	if di.Shared() != before {
		t.Error("expected the original container restored")
	}
}
