// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/jeranaias/chatline/internal/model"
	"github.com/jeranaias/chatline/internal/storage"
)

// Sender delivers a composed message. Implementations must be safe to call
// from a tea.Cmd goroutine.
type Sender interface {
	Send(ctx context.Context, msg *model.Message) error
}

// LocalSender keeps sent messages in the local store only.
type LocalSender struct {
	Store *storage.Store
}

// Send appends msg to the store. Without a store it does nothing.
func (s LocalSender) Send(ctx context.Context, msg *model.Message) error {
	if s.Store == nil {
		return nil
	}
	return s.Store.AppendMessage(ctx, msg)
}
