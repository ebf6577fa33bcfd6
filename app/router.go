package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Module is the lifecycle every feature module implements.
type Module interface {
	Run(ctx context.Context, wg *sync.WaitGroup)
	Close() error
}

// runModules starts each module on its own goroutine.
func runModules(ctx context.Context, wg *sync.WaitGroup, modules ...Module) {
	for _, m := range modules {
		wg.Add(1)
		go m.Run(ctx, wg)
	}
}

// closeModules closes modules in reverse start order and joins their errors.
func closeModules(modules ...Module) error {
	var errs []error
	for i := len(modules) - 1; i >= 0; i-- {
		if err := modules[i].Close(); err != nil {
			errs = append(errs, fmt.Errorf("module %T: %w", modules[i], err))
		}
	}
	return errors.Join(errs...)
}
