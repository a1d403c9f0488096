package panel

import (
	"fmt"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fragboard/internal/stats"
	"fragboard/internal/view"
)

func fakeRows(n int) []stats.Row {
	rows := make([]stats.Row, n)
	for i := range rows {
		rows[i] = stats.Row{
			Label:  fmt.Sprintf("player%d", i),
			Detail: fmt.Sprintf("%d kills", 100-i),
		}
	}
	return rows
}

func buttons(t *testing.T, c discordgo.MessageComponent) []discordgo.Button {
	t.Helper()
	row, ok := c.(discordgo.ActionsRow)
	require.True(t, ok)
	out := make([]discordgo.Button, 0, len(row.Components))
	for _, inner := range row.Components {
		b, ok := inner.(discordgo.Button)
		require.True(t, ok)
		out = append(out, b)
	}
	return out
}

func selectMenu(t *testing.T, c discordgo.MessageComponent) discordgo.SelectMenu {
	t.Helper()
	row, ok := c.(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, row.Components, 1)
	menu, ok := row.Components[0].(discordgo.SelectMenu)
	require.True(t, ok)
	return menu
}

func TestToolbarPayload_topLevel(t *testing.T) {
	t.Parallel()

	rows := fakeRows(10)
	p := toolbarPayload(snapshot{
		pos:      Position{View: view.Ladder, Page: 2},
		rows:     rows,
		menuView: view.Ladder,
		menuPage: 2,
		menuRows: rows,
	})

	require.Len(t, p.Components, 2)

	tabs := buttons(t, p.Components[0])
	require.Len(t, tabs, 4)
	assert.Equal(t, "ui:home", tabs[0].CustomID)
	assert.Equal(t, "ui:ladder", tabs[1].CustomID)
	// The active view's tab is highlighted; the rest are not.
	assert.Equal(t, discordgo.PrimaryButton, tabs[1].Style)
	assert.Equal(t, discordgo.SecondaryButton, tabs[0].Style)
	assert.Equal(t, discordgo.SecondaryButton, tabs[2].Style)

	menu := selectMenu(t, p.Components[1])
	assert.Equal(t, "ui:ladder:sel:2", menu.CustomID)
	// The menu offers exactly the rows the content pane is showing.
	require.Len(t, menu.Options, len(rows))
	for i, opt := range menu.Options {
		assert.Equal(t, rows[i].Label, opt.Value)
		assert.False(t, opt.Default)
	}
}

func TestToolbarPayload_drilldown(t *testing.T) {
	t.Parallel()

	parentRows := fakeRows(10)
	parentRows[3].Label = "Rifle"

	p := toolbarPayload(snapshot{
		pos:      Position{View: view.WeaponPlayers, Page: 1, Param: "Rifle", ParentPage: 1},
		rows:     fakeRows(4),
		menuView: view.Weapons,
		menuPage: 1,
		menuRows: parentRows,
	})

	require.Len(t, p.Components, 2)

	// A drill-down highlights its parent's tab.
	tabs := buttons(t, p.Components[0])
	assert.Equal(t, discordgo.PrimaryButton, tabs[2].Style)
	assert.Equal(t, discordgo.SecondaryButton, tabs[1].Style)

	// The menu is bound to the parent list at the remembered parent page,
	// with the drilled-into entry pre-selected.
	menu := selectMenu(t, p.Components[1])
	assert.Equal(t, "ui:weapons:sel:1", menu.CustomID)
	for i, opt := range menu.Options {
		assert.Equal(t, i == 3, opt.Default, opt.Value)
	}
}

func TestToolbarPayload_home(t *testing.T) {
	t.Parallel()

	p := toolbarPayload(snapshot{pos: HomePosition})

	// No select menu on the home view.
	require.Len(t, p.Components, 1)
	tabs := buttons(t, p.Components[0])
	assert.Equal(t, discordgo.PrimaryButton, tabs[0].Style)
}

func TestContentPayload_pager(t *testing.T) {
	t.Parallel()

	// 23 rows total: page 0 has a next page, page 2 holds the final 3 rows.
	t.Run("first page", func(t *testing.T) {
		p := contentPayload(snapshot{
			pos:   Position{View: view.Ladder, Page: 0},
			rows:  fakeRows(10),
			total: 23,
		})
		require.Len(t, p.Components, 1)
		pager := buttons(t, p.Components[0])
		require.Len(t, pager, 2)
		assert.True(t, pager[0].Disabled, "previous must be disabled on the first page")
		assert.False(t, pager[1].Disabled)
		assert.Equal(t, "ui:ladder:prev:0", pager[0].CustomID)
		assert.Equal(t, "ui:ladder:next:0", pager[1].CustomID)
	})

	t.Run("last page", func(t *testing.T) {
		p := contentPayload(snapshot{
			pos:   Position{View: view.Ladder, Page: 2},
			rows:  fakeRows(3),
			total: 23,
		})
		pager := buttons(t, p.Components[0])
		assert.False(t, pager[0].Disabled)
		assert.True(t, pager[1].Disabled, "next must be disabled when only 3 rows remain")
	})

	t.Run("drill-down pager carries context", func(t *testing.T) {
		p := contentPayload(snapshot{
			pos:   Position{View: view.WeaponPlayers, Page: 0, Param: "Rifle", ParentPage: 1},
			rows:  fakeRows(10),
			total: 15,
		})
		pager := buttons(t, p.Components[0])
		assert.Equal(t, "ui:wplayers:prev:0:Rifle:1", pager[0].CustomID)
		assert.Equal(t, "ui:wplayers:next:0:Rifle:1", pager[1].CustomID)
	})
}

func TestContentPayload_captions(t *testing.T) {
	t.Parallel()

	p := contentPayload(snapshot{
		pos:   Position{View: view.Ladder, Page: 1},
		rows:  fakeRows(10),
		total: 23,
	})

	// Ten rows render as two cards; only the final card carries the
	// readable caption, the other is padded so truncation cannot eat it.
	require.Len(t, p.Embeds, 2)
	require.NotNil(t, p.Embeds[0].Footer)
	assert.Equal(t, "\u200b", p.Embeds[0].Footer.Text)
	require.NotNil(t, p.Embeds[1].Footer)
	assert.Equal(t, "Page 2 of 3 — Player Ladder", p.Embeds[1].Footer.Text)
}

func TestContentPayload_emptyStates(t *testing.T) {
	t.Parallel()

	t.Run("unmatched drill-down label renders an explicit empty state", func(t *testing.T) {
		p := contentPayload(snapshot{
			pos:        Position{View: view.WeaponPlayers, Param: "Riffle", ParentPage: 0},
			suggestion: "Rifle",
		})
		require.Len(t, p.Embeds, 1)
		assert.Contains(t, p.Embeds[0].Description, "No results")
		assert.Contains(t, p.Embeds[0].Description, "Rifle")
		assert.Empty(t, p.Components)
	})

	t.Run("unknown player renders an explicit empty state", func(t *testing.T) {
		p := contentPayload(snapshot{
			pos: Position{View: view.Player, Param: "ghost"},
		})
		require.Len(t, p.Embeds, 1)
		assert.Contains(t, p.Embeds[0].Description, "ghost")
	})

	t.Run("player profile has no pager", func(t *testing.T) {
		detail := stats.PlayerDetail{Name: "shroud", Score: 1200}
		p := contentPayload(snapshot{
			pos:    Position{View: view.Player, Param: "shroud"},
			detail: &detail,
		})
		require.Len(t, p.Embeds, 1)
		assert.Equal(t, "shroud", p.Embeds[0].Title)
		assert.Empty(t, p.Components)
	})
}
