package client

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"tgclient/envelope"
	"tgclient/protocol"
	"tgclient/tgerr"
)

// GetGroupMembers returns the full user objects of a group's members. Basic
// groups deliver their whole member list in one call; supergroups and
// channels are paged by offset. pageSize only applies to the paged path.
func (c *Client) GetGroupMembers(groupID int64, pageSize int) ([]envelope.Response, error) {
	chat, err := c.Call(protocol.MethodGetChat, envelope.Params{"chat_id": groupID})
	if err != nil {
		return nil, err
	}

	chatType := chat.Object("type")
	var members []envelope.Response
	switch chatType.Type() {
	case protocol.ChatTypeBasicGroup:
		basicGroupID, _ := chatType.Int64("basic_group_id")
		info, err := c.Call(protocol.MethodGetBasicGroupFullInfo, envelope.Params{
			"basic_group_id": basicGroupID,
		})
		if err != nil {
			return nil, err
		}
		members = info.Objects("members")

	case protocol.ChatTypeSupergroup:
		members, err = c.supergroupMembers(chatType, pageSize)
		if err != nil {
			return nil, err
		}

	default:
		return nil, tgerr.New(tgerr.KindUnknown,
			fmt.Sprintf("unknown group type: %q", chatType.Type()))
	}

	users := make([]envelope.Response, 0, len(members))
	for _, member := range members {
		userID, _ := member.Int64("user_id")
		user, err := c.GetUser(userID)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// supergroupMembers pages through getSupergroupMembers by offset until an
// empty page, deduplicating by user identifier. The server-reported total may
// disagree with what was accumulated (it can change between pages); that is
// logged, never fatal.
func (c *Client) supergroupMembers(chatType envelope.Response, pageSize int) ([]envelope.Response, error) {
	if pageSize <= 1 {
		return nil, tgerr.Validation("member page size must be greater than 1, got %d", pageSize)
	}
	supergroupID, _ := chatType.Int64("supergroup_id")

	limiter := rate.NewLimiter(rate.Every(c.cfg.RequestDelay), 1)

	var members []envelope.Response
	seen := make(map[int64]struct{})
	offset := 0
	totalCount := int64(0)

	for {
		_ = limiter.Wait(context.Background())

		resp, err := c.Call(protocol.MethodGetSupergroupMembers, envelope.Params{
			"supergroup_id": supergroupID,
			"offset":        offset,
			"limit":         pageSize,
		})
		if err != nil {
			return nil, err
		}

		page := resp.Objects("members")
		totalCount, _ = resp.Int64("total_count")
		for _, member := range page {
			userID, _ := member.Int64("user_id")
			if _, dup := seen[userID]; dup {
				continue
			}
			members = append(members, member)
			seen[userID] = struct{}{}
		}

		c.logger.Debug("member page fetched",
			zap.Int("page", len(page)), zap.Int("total", len(members)))

		if len(page) == 0 {
			break
		}
		offset += len(page)
	}

	if totalCount != int64(len(members)) {
		c.logger.Warn("member total mismatch",
			zap.Int64("reported", totalCount), zap.Int("accumulated", len(members)))
	}
	return members, nil
}
