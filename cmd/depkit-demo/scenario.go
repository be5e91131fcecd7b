package main

import (
	"context"
	"fmt"

	"github.com/kbukum/depkit/di"
)

// Greeter is the dependency swapped by the scenario.
type Greeter interface {
	Greet(name string) string
}

type englishGreeter struct{}

func (englishGreeter) Greet(name string) string { return "hello, " + name }

type prefixGreeter struct{ prefix string }

func (g prefixGreeter) Greet(name string) string { return g.prefix + ", " + name }

type greeterKey struct{}

func (greeterKey) DefaultValue() Greeter { return englishGreeter{} }

// GreeterDep is the shared greeter.
var GreeterDep = di.FieldOf[greeterKey, Greeter]()

type audienceKey struct{}

func (audienceKey) DefaultValue() string { return "gopher" }

// AudienceDep names who is greeted. It lives in its own slot, apart from
// the shared container.
var AudienceDep = di.FieldOf[audienceKey, string]()

var audience = di.NewSlot(nil)

// Welcome reads its greeter and audience through accessors bound at
// construction.
type Welcome struct {
	greet    di.Dependency[func(string) string]
	audience di.Dependency[string]
}

func NewWelcome() *Welcome {
	return &Welcome{
		greet: di.Inject(di.Project(GreeterDep, func(g Greeter) func(string) string {
			return g.Greet
		})),
		audience: di.Inject(AudienceDep, di.FromSlot(audience)),
	}
}

func (w *Welcome) Message() string {
	return w.greet.Value()(w.audience.Value())
}

// Step is one observation made by the scenario.
type Step struct {
	Step     string
	Greeting string
	Source   string
}

func source(stored bool) string {
	if stored {
		return "stored"
	}
	return "default"
}

// runScenario reads the greeter with the default, after a permanent change,
// inside a traced scoped override, under an override of the audience slot
// and after every scope has been restored.
func runScenario(ctx context.Context) ([]Step, error) {
	prev := di.SharedSlot().Swap(di.NewContainer())
	defer di.SetShared(prev)

	w := NewWelcome()
	observe := func(step string) Step {
		_, stored := GreeterDep.Lookup(di.Shared())
		return Step{Step: step, Greeting: w.Message(), Source: source(stored)}
	}

	steps := []Step{observe("default greeter")}

	GreeterDep.Set(di.Shared(), prefixGreeter{prefix: "hi"})
	steps = append(steps, observe("shared greeter replaced"))

	scoped, err := di.WithDependenciesContext(ctx, func(c *di.Container) {
		GreeterDep.Set(c, prefixGreeter{prefix: "howdy"})
	}, func(ctx context.Context) (Step, error) {
		if err := ctx.Err(); err != nil {
			return Step{}, err
		}
		return observe("inside scoped override"), nil
	})
	if err != nil {
		return nil, fmt.Errorf("scoped override: %w", err)
	}
	steps = append(steps, scoped)

	audience.Run(func(c *di.Container) {
		AudienceDep.Set(c, "reviewers")
	}, func() {
		steps = append(steps, observe("audience slot overridden"))
	})

	steps = append(steps, observe("after scoped overrides"))
	return steps, nil
}
