// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/jonpalmisc/limoncello/internal/adapters/config"
	_ "github.com/jonpalmisc/limoncello/internal/adapters/fs"
	_ "github.com/jonpalmisc/limoncello/internal/adapters/logger"
	_ "github.com/jonpalmisc/limoncello/internal/adapters/shell"
	_ "github.com/jonpalmisc/limoncello/internal/adapters/watcher"
	// Register app nodes.
	_ "github.com/jonpalmisc/limoncello/internal/app"
)
