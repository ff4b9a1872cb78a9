package client

import (
	"context"
	"math"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"tgclient/envelope"
	"tgclient/protocol"
	"tgclient/tgerr"
)

// GetAllChats walks the chat list to the end and returns full chat objects in
// server order, deduplicated by chat identifier (pages may overlap when the
// list reorders between requests).
//
// The cursor is (offset_order, offset_chat_id), starting at the maximum
// signed 64-bit order. After each page the order advances to the last
// accumulated chat's order field. A page shorter than pageSize ends the walk.
func (c *Client) GetAllChats(pageSize int) ([]envelope.Response, error) {
	if pageSize <= 1 {
		return nil, tgerr.Validation("chat page size must be greater than 1, got %d", pageSize)
	}

	// Burst 1: the first page never waits, every following page is spaced by
	// the configured delay, and no delay is spent after the final page.
	limiter := rate.NewLimiter(rate.Every(c.cfg.RequestDelay), 1)

	var chats []envelope.Response
	seen := make(map[int64]struct{})
	var offsetOrder any = int64(math.MaxInt64)
	offsetChatID := int64(0)

	for {
		_ = limiter.Wait(context.Background())

		page, err := c.Call(protocol.MethodGetChats, envelope.Params{
			"offset_order":   offsetOrder,
			"offset_chat_id": offsetChatID,
			"limit":          pageSize,
		})
		if err != nil {
			return nil, err
		}

		chatIDs := page.Int64Slice("chat_ids")
		for _, chatID := range chatIDs {
			if _, dup := seen[chatID]; dup {
				continue
			}
			// Offline request on the native side; not paced.
			chat, err := c.Call(protocol.MethodGetChat, envelope.Params{"chat_id": chatID})
			if err != nil {
				return nil, err
			}
			chats = append(chats, chat)
			seen[chatID] = struct{}{}
		}

		c.logger.Debug("chat page fetched",
			zap.Int("page", len(chatIDs)), zap.Int("total", len(chats)))

		if len(chatIDs) == 0 || len(chatIDs) < pageSize {
			return chats, nil
		}
		if len(chats) > 0 {
			// The order value round-trips untouched: the peer serializes it
			// as a decimal string and expects the same form back.
			offsetOrder = chats[len(chats)-1]["order"]
		}
	}
}
