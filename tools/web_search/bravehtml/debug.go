package bravehtml

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mohammad-safakhou/factcheck/internal/browser"
)

// DebugHook receives the rendered results page of a search.
type DebugHook func(query string, page browser.Page)

// FileDebugHook writes the page HTML and screenshot of each search into dir.
// Write failures are logged and otherwise ignored.
func FileDebugHook(dir string, logger *log.Logger) DebugHook {
	if logger == nil {
		logger = log.Default()
	}
	return func(query string, page browser.Page) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Printf("debug capture: %v", err)
			return
		}
		stem := filepath.Join(dir, fmt.Sprintf("search-%d", time.Now().UnixNano()))
		if page.HTML != "" {
			if err := os.WriteFile(stem+".html", []byte(page.HTML), 0o644); err != nil {
				logger.Printf("debug capture: %v", err)
			}
		}
		if len(page.Screenshot) > 0 {
			if err := os.WriteFile(stem+".png", page.Screenshot, 0o644); err != nil {
				logger.Printf("debug capture: %v", err)
			}
		}
		logger.Printf("debug capture for %q written to %s.*", query, stem)
	}
}
