package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/tradersutopia/tradersutopia/internal/db"
	"github.com/tradersutopia/tradersutopia/internal/search"
)

const messageFetchLimit = 100

// ChannelMapping routes one Discord channel into one platform channel.
type ChannelMapping struct {
	DiscordChannelID string `json:"discord_channel_id"`
	ChannelID        string `json:"channel_id"`
}

type channelResult struct {
	mapping  ChannelMapping
	imported int
	err      error
}

// ParseMappings decodes the channel mapping secret.
func ParseMappings(raw string) ([]ChannelMapping, error) {
	var mappings []ChannelMapping
	if err := json.Unmarshal([]byte(raw), &mappings); err != nil {
		return nil, fmt.Errorf("parsing channel mappings: %w", err)
	}
	for _, m := range mappings {
		if m.DiscordChannelID == "" || m.ChannelID == "" {
			return nil, fmt.Errorf("channel mapping missing an id: %+v", m)
		}
	}
	return mappings, nil
}

// Run polls every mapped Discord channel once and copies new messages
// into the platform. Channels are collected concurrently; one channel
// failing does not stop the others.
func Run(ctx context.Context, botToken string, mappings []ChannelMapping) error {
	dg, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return fmt.Errorf("creating Discord session: %w", err)
	}
	// REST only, no gateway connection

	results := make(chan channelResult, len(mappings))
	var wg sync.WaitGroup
	for _, mapping := range mappings {
		wg.Add(1)
		go func(m ChannelMapping) {
			defer wg.Done()
			imported, err := collectChannel(ctx, dg, m)
			results <- channelResult{mapping: m, imported: imported, err: err}
		}(mapping)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	total := 0
	failures := 0
	for res := range results {
		if res.err != nil {
			failures++
			log.Printf("Error collecting channel %s: %v", res.mapping.DiscordChannelID, res.err)
			continue
		}
		total += res.imported
	}
	log.Printf("Collector run finished: %d messages imported, %d/%d channels failed", total, failures, len(mappings))

	if failures == len(mappings) && len(mappings) > 0 {
		return fmt.Errorf("all %d channels failed", len(mappings))
	}
	return nil
}

func collectChannel(ctx context.Context, dg *discordgo.Session, mapping ChannelMapping) (int, error) {
	owner, err := db.ServerOwnerMember(ctx, mapping.ChannelID)
	if err != nil {
		return 0, fmt.Errorf("resolving target channel %s: %w", mapping.ChannelID, err)
	}

	after, err := db.GetChannelWatermark(ctx, mapping.DiscordChannelID)
	if err != nil {
		return 0, err
	}

	msgs, err := dg.ChannelMessages(mapping.DiscordChannelID, messageFetchLimit, "", after, "")
	if err != nil {
		return 0, fmt.Errorf("fetching Discord messages: %w", err)
	}
	if len(msgs) == 0 {
		return 0, nil
	}

	// Discord returns newest first; import in chronological order
	imported := 0
	watermark := after
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		if m.Author != nil && m.Author.Bot {
			continue
		}

		content := m.Content
		fileURL := ""
		if len(m.Attachments) > 0 {
			fileURL = m.Attachments[0].URL
		}
		if content == "" && fileURL == "" {
			continue
		}

		messageID, inserted, err := db.UpsertCollectedMessage(ctx, m.ID, mapping.ChannelID, owner.ID, content, fileURL)
		if err != nil {
			log.Printf("Error importing message %s: %v", m.ID, err)
			continue
		}
		watermark = MaxSnowflake(watermark, m.ID)
		if !inserted {
			continue
		}
		imported++

		if isSignalMessage(content) {
			db.FanOutMessageNotifications(ctx, db.NotificationSignal,
				"New trade signal", firstLine(content),
				owner.ServerID, mapping.ChannelID, messageID, owner.ID)
		}
		go search.EmbedMessage(context.Background(), messageID, owner.ServerID, content)
	}

	if watermark != after {
		if err := db.SetChannelWatermark(ctx, mapping.DiscordChannelID, watermark); err != nil {
			return imported, err
		}
	}
	return imported, nil
}

// MaxSnowflake returns the larger of two Discord snowflake ids. Equal
// lengths compare lexically; otherwise the longer string is the larger
// number.
func MaxSnowflake(a string, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	if au, errA := strconv.ParseUint(a, 10, 64); errA == nil {
		if bu, errB := strconv.ParseUint(b, 10, 64); errB == nil {
			if au >= bu {
				return a
			}
			return b
		}
	}
	if len(a) != len(b) {
		if len(a) > len(b) {
			return a
		}
		return b
	}
	if a >= b {
		return a
	}
	return b
}

func isSignalMessage(content string) bool {
	lower := strings.ToLower(content)
	return strings.Contains(lower, "@everyone") || strings.Contains(lower, "@here") ||
		strings.Contains(lower, "entry") || strings.Contains(lower, "stop loss")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 120 {
		s = s[:120] + "..."
	}
	return s
}
