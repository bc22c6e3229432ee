package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"bond-rv-analyzer/internal/engine"
	"bond-rv-analyzer/internal/service"
)

// Simulate 对单只债券执行一次完整分析并输出计算明细。
func (a *App) Simulate(ctx context.Context, bond engine.Bond) error {
	resolver, err := a.newResolver(ctx)
	if err != nil {
		return err
	}
	analyzer := service.New(a.Config, resolver, nil, a.Logger)

	outcomes := analyzer.AnalyzeBatch(ctx, []engine.Bond{bond}, nil)
	outcome := outcomes[0]
	if outcome.Failed() {
		return fmt.Errorf("%s", outcome.Err.Error)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(outcome.Result)
}
