package panel

import (
	"fmt"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"fragboard/internal/format"
	"fragboard/internal/stats"
	"fragboard/internal/token"
	"fragboard/internal/view"
)

// Payload is everything needed to overwrite one surface message.
type Payload struct {
	Content    string
	Embeds     []*discordgo.MessageEmbed
	Components []discordgo.MessageComponent
}

// snapshot is everything fetched from the stats provider to render one
// position on both surfaces.
type snapshot struct {
	pos   Position
	rows  []stats.Row
	total int

	// The rows backing the toolbar select menu. For a top-level list these
	// are the content rows themselves; for a drill-down they are the parent
	// list's rows at the remembered parent page, re-fetched on every
	// transition so the menu never drifts from what is on screen.
	menuView view.View
	menuPage int
	menuRows []stats.Row

	// Terminal player profile, when the position is the player view.
	detail *stats.PlayerDetail
	// Nearest-name suggestion for the empty state.
	suggestion string

	// Store totals for the home overview.
	players, weapons, maps int
}

var tabLabels = map[view.View]string{
	view.Home:    "Home",
	view.Ladder:  "Ladder",
	view.Weapons: "Weapons",
	view.Maps:    "Maps",
}

var menuPlaceholders = map[view.View]string{
	view.Ladder:  "View a player profile…",
	view.Weapons: "Show the players behind a weapon…",
	view.Maps:    "Show the players behind a map…",
}

// toolbarPayload renders the navigation surface: the tab row, with the
// active view's tab highlighted (drill-downs highlight their parent's tab),
// and for list views the select menu bound to the current page's rows.
func toolbarPayload(s snapshot) Payload {
	active := s.pos.View.Tab()

	tabs := make([]discordgo.MessageComponent, 0, len(view.Tabs))
	for _, t := range view.Tabs {
		style := discordgo.SecondaryButton
		if t == active {
			style = discordgo.PrimaryButton
		}
		tabs = append(tabs, discordgo.Button{
			Label:    tabLabels[t],
			Style:    style,
			CustomID: token.Tab(t),
		})
	}

	components := []discordgo.MessageComponent{discordgo.ActionsRow{Components: tabs}}

	if s.menuView != view.None && len(s.menuRows) > 0 {
		options := make([]discordgo.SelectMenuOption, 0, len(s.menuRows))
		for _, row := range s.menuRows {
			options = append(options, discordgo.SelectMenuOption{
				Label:       truncate(row.Label, 100),
				Value:       row.Label,
				Description: truncate(row.Detail, 100),
				// Keep the drilled-into entry highlighted whenever its row
				// is on the offered page.
				Default: s.pos.Param != "" && row.Label == s.pos.Param,
			})
		}
		components = append(components, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					MenuType:    discordgo.StringSelectMenu,
					CustomID:    token.Menu(s.menuView, s.menuPage),
					Placeholder: menuPlaceholders[s.menuView],
					Options:     options,
				},
			},
		})
	}

	return Payload{Components: components}
}

// contentPayload renders the content surface: the page's cards plus a pager
// for paginated views.
func contentPayload(s snapshot) Payload {
	switch {
	case s.pos.View == view.Home:
		return Payload{Embeds: []*discordgo.MessageEmbed{
			format.HomeCard(s.players, s.weapons, s.maps),
		}}
	case s.detail != nil:
		return Payload{Embeds: []*discordgo.MessageEmbed{format.PlayerCard(*s.detail)}}
	case s.pos.View == view.Player:
		return Payload{Embeds: []*discordgo.MessageEmbed{
			format.Empty(s.pos.View.Title(), s.pos.Param, s.suggestion),
		}}
	}

	title := s.pos.View.Title()
	if s.pos.Param != "" {
		title = fmt.Sprintf("%s %s", title, s.pos.Param)
	}

	if s.total == 0 {
		card := format.Empty(title, s.pos.Param, s.suggestion)
		if s.pos.Param == "" {
			card = &discordgo.MessageEmbed{
				Title:       title,
				Description: "No stats recorded yet.",
			}
		}
		return Payload{Embeds: []*discordgo.MessageEmbed{card}}
	}

	cards := format.Cards(s.rows, title, format.CardOptions{Offset: view.Offset(s.pos.Page)})
	format.Paginate(cards, s.pos.Page, pages(s.total), s.pos.View.Title())

	return Payload{
		Embeds:     cards,
		Components: []discordgo.MessageComponent{pagerRow(s.pos, s.total)},
	}
}

// pagerRow builds the previous/next controls. Unavailable directions are
// disabled, never hidden and never allowed to wrap.
func pagerRow(pos Position, total int) discordgo.ActionsRow {
	var prevID, nextID string
	if pos.Param != "" {
		prevID = token.PagerContext(pos.View, token.Prev, pos.Page, pos.Param, pos.ParentPage)
		nextID = token.PagerContext(pos.View, token.Next, pos.Page, pos.Param, pos.ParentPage)
	} else {
		prevID = token.Pager(pos.View, token.Prev, pos.Page)
		nextID = token.Pager(pos.View, token.Next, pos.Page)
	}

	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "◀ Prev",
				Style:    discordgo.SecondaryButton,
				CustomID: prevID,
				Disabled: pos.Page == 0,
			},
			discordgo.Button{
				Label:    "Next ▶",
				Style:    discordgo.SecondaryButton,
				CustomID: nextID,
				Disabled: view.Offset(pos.Page)+view.PageSize >= total,
			},
		},
	}
}

func pages(total int) int {
	n := (total + view.PageSize - 1) / view.PageSize
	if n < 1 {
		n = 1
	}
	return n
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
