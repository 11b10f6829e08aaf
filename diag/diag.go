// Copyright 2024 G-Core Innovations SARL

// Package diag reports application diagnostics to the FastEdge platform.
package diag

import (
	"fmt"

	"github.com/G-Core/FastEdge-sdk-go/internal/abi/fastedge"
)

// SetUserDiag attaches msg to the statistics record of the current
// invocation. The platform keeps one message per invocation; a later call
// replaces the earlier one.
func SetUserDiag(msg string) {
	if status := fastedge.StatsSetUserDiag(msg); status != fastedge.StatusOK {
		panic(fmt.Sprintf("unexpected status: %d", status))
	}
}
