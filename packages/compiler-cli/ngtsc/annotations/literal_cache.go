package annotations

import (
	"fmt"
	"sync"

	"ngtsc-go/packages/compiler-cli/ngtsc/diagnostics"
	"ngtsc-go/packages/compiler-cli/ngtsc/reflection"
)

// decoratorLiteralCache resolves a decorator's configuration-object argument
// at most once. The preload phase and the analysis phase both consult it;
// analysis evicts the entry once it has consumed the literal.
type decoratorLiteralCache struct {
	mu       sync.Mutex
	literals map[*reflection.Decorator]*reflection.ObjectLiteral
}

func newDecoratorLiteralCache() *decoratorLiteralCache {
	return &decoratorLiteralCache{
		literals: make(map[*reflection.Decorator]*reflection.ObjectLiteral),
	}
}

// resolve returns the decorator's single object-literal argument, cached.
func (c *decoratorLiteralCache) resolve(decorator *reflection.Decorator) (*reflection.ObjectLiteral, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if literal, ok := c.literals[decorator]; ok {
		return literal, nil
	}
	if len(decorator.Args) != 1 {
		return nil, diagnostics.NewFatalError(
			diagnostics.ErrorCodeDecoratorArityWrong,
			decorator.Range,
			fmt.Sprintf("incorrect number of arguments to @%s decorator, expected 1, got %d", decorator.Name, len(decorator.Args)))
	}
	literal, ok := decorator.Args[0].(*reflection.ObjectLiteral)
	if !ok {
		return nil, diagnostics.NewFatalError(
			diagnostics.ErrorCodeDecoratorArgNotLiteral,
			decorator.Args[0].Range(),
			fmt.Sprintf("@%s argument must be an object literal", decorator.Name))
	}
	c.literals[decorator] = literal
	return literal, nil
}

// evict drops the cached literal for a decorator.
func (c *decoratorLiteralCache) evict(decorator *reflection.Decorator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.literals, decorator)
}
