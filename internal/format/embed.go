// Package format renders statistics rows into Discord embeds: leaderboard
// cards with absolute rank markers, pagination captions, the empty-state
// card, and the single-record player profile. Pure functions over row
// values; no session access.
package format

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"fragboard/internal/stats"
)

const (
	// rowsPerCard splits a ten-row page across two cards.
	rowsPerCard = 5

	// paddingCaption is a zero-width space. Every card except the last one
	// carries it as its footer, so client-side truncation cannot eat the
	// human-readable caption on the final card.
	paddingCaption = "\u200b"

	embedColor = 0xd97706
)

// medals distinguish the top three absolute ranks across the whole
// ordering.
var medals = [...]string{"🥇", "🥈", "🥉"}

// RankMarker renders a 1-based absolute rank. Ranks beyond the medals render
// numerically.
func RankMarker(rank int) string {
	if rank >= 1 && rank <= len(medals) {
		return medals[rank-1]
	}
	return fmt.Sprintf("#%d.", rank)
}

type CardOptions struct {
	// Offset is the absolute index of the first row, so rank markers stay
	// stable under re-pagination.
	Offset int
	// Thumbnail is an optional image URL for the first card.
	Thumbnail string
}

// Cards renders one page of rows into cards of rowsPerCard entries each.
// Captions are left unset; see Paginate.
func Cards(rows []stats.Row, title string, opts CardOptions) []*discordgo.MessageEmbed {
	var cards []*discordgo.MessageEmbed
	for start := 0; start < len(rows); start += rowsPerCard {
		end := min(start+rowsPerCard, len(rows))

		var b strings.Builder
		for i, row := range rows[start:end] {
			rank := opts.Offset + start + i + 1
			fmt.Fprintf(&b, "%s **%s** — %s\n", RankMarker(rank), row.Label, row.Detail)
		}

		card := &discordgo.MessageEmbed{
			Description: b.String(),
			Color:       embedColor,
		}
		if start == 0 {
			card.Title = title
			if opts.Thumbnail != "" {
				card.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: opts.Thumbnail}
			}
		}
		cards = append(cards, card)
	}
	return cards
}

// Paginate sets the pagination captions on a page's cards: padding on all
// but the last, the readable page marker on the last.
func Paginate(cards []*discordgo.MessageEmbed, page, pages int, title string) {
	for i, card := range cards {
		if i == len(cards)-1 {
			SetCaption(card, fmt.Sprintf("Page %d of %d — %s", page+1, pages, title))
		} else {
			SetCaption(card, paddingCaption)
		}
	}
}

// Caption returns a card's caption, or the empty string if it has none or
// only padding.
func Caption(card *discordgo.MessageEmbed) string {
	if card.Footer == nil || card.Footer.Text == paddingCaption {
		return ""
	}
	return card.Footer.Text
}

func SetCaption(card *discordgo.MessageEmbed, caption string) {
	card.Footer = &discordgo.MessageEmbedFooter{Text: caption}
}

// Empty renders the explicit nothing-found state for a drill-down label that
// no longer resolves. Suggestion may be empty.
func Empty(title, label, suggestion string) *discordgo.MessageEmbed {
	desc := fmt.Sprintf("No results for **%s**.", label)
	if suggestion != "" {
		desc += fmt.Sprintf(" Did you mean **%s**?", suggestion)
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: desc,
		Color:       embedColor,
	}
}

// PlayerCard renders the terminal player profile.
func PlayerCard(d stats.PlayerDetail) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: d.Name,
		Color: embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Score", Value: fmt.Sprintf("%d", d.Score), Inline: true},
			{Name: "Kills", Value: fmt.Sprintf("%d", d.Kills), Inline: true},
			{Name: "Deaths", Value: fmt.Sprintf("%d", d.Deaths), Inline: true},
			{Name: "Accuracy", Value: fmt.Sprintf("%.1f%%", d.Accuracy), Inline: true},
			{Name: "Favorite Weapon", Value: orDash(d.FavoriteWeapon), Inline: true},
			{Name: "Favorite Map", Value: orDash(d.FavoriteMap), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Last seen " + d.LastSeen.Format("2 Jan 2006 15:04 MST"),
		},
	}
}

// HomeCard renders the default overview shown on startup and after an idle
// reset.
func HomeCard(players, weapons, maps int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Server Overview",
		Description: "Pick a tab above to browse the leaderboards, or use the " +
			"dropdown on a leaderboard to drill into a player, weapon or map.",
		Color: embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Players", Value: fmt.Sprintf("%d", players), Inline: true},
			{Name: "Weapons", Value: fmt.Sprintf("%d", weapons), Inline: true},
			{Name: "Maps", Value: fmt.Sprintf("%d", maps), Inline: true},
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
