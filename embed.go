package main

import (
	"bytes"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Payload is one status message ready to be sent or edited in place.
type Payload struct {
	Embed *discordgo.MessageEmbed
	Chart []byte // PNG attachment, nil when no chart is attached
}

// Files returns fresh discordgo attachments; a File reader is consumed on upload.
func (p Payload) Files() []*discordgo.File {
	if len(p.Chart) == 0 {
		return nil
	}
	return []*discordgo.File{{
		Name:        chartFileName,
		ContentType: "image/png",
		Reader:      bytes.NewReader(p.Chart),
	}}
}

// buildStatusEmbed maps a status result onto the status embed for server.
func buildStatusEmbed(server ServerConfig, status StatusResult, chartPNG []byte, ec EmbedConfig, now time.Time) Payload {
	colorHex := ec.Colors.Offline
	if status.Online {
		colorHex = ec.Colors.Online
	}
	color, _ := parseHexColor(colorHex) // validated at load

	embed := &discordgo.MessageEmbed{
		Title:     ec.Title,
		Color:     color,
		Timestamp: now.Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: ec.Footer},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📡 Server", Value: fmt.Sprintf("%s (%s)", server.Name, server.HostPort()), Inline: true},
			{Name: "🔌 Status", Value: statusLabel(status), Inline: true},
		},
	}

	if !status.Online {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "❌ Error", Value: truncateField(status.Reason)})
		return Payload{Embed: embed}
	}

	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "👥 Players", Value: fmt.Sprintf("%d/%d", status.Players, status.MaxPlayers), Inline: true},
		&discordgo.MessageEmbedField{Name: "🏷️ Version", Value: status.Version, Inline: true},
		&discordgo.MessageEmbedField{Name: "📊 Ping", Value: fmt.Sprintf("%dms", status.PingMs), Inline: true},
		&discordgo.MessageEmbedField{Name: "📝 MOTD", Value: truncateField(status.Description)},
	)

	if server.Display.ShowNextUpdate {
		next := now.Add(server.UpdateInterval).Unix()
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "⏱️ Next Update", Value: fmt.Sprintf("<t:%d:R>", next), Inline: true})
	}

	payload := Payload{Embed: embed}
	if len(chartPNG) > 0 && server.Display.ChartEnabled() {
		embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://" + chartFileName}
		payload.Chart = chartPNG
	}
	return payload
}

func statusLabel(status StatusResult) string {
	if status.Online {
		return "✅ Online"
	}
	return "❌ Offline"
}

// Discord rejects embed field values longer than this many characters.
const maxFieldValueLen = 1024

func truncateField(s string) string {
	runes := []rune(s)
	if len(runes) <= maxFieldValueLen {
		return s
	}
	return string(runes[:maxFieldValueLen-1]) + "…"
}
