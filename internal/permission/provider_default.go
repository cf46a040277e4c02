//go:build !protogen

package permission

import "log/slog"

func NewDirectoryProvider(_ *slog.Logger, fallback Provider, _ string) Provider {
	return fallback
}
