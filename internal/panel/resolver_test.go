package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fragboard/internal/token"
	"fragboard/internal/view"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  token.Request
		want Position
	}{
		{
			"tab switch restarts at page zero",
			token.TabSwitch{View: view.Ladder},
			Position{View: view.Ladder},
		},
		{
			"tab switch sheds drill-down context",
			token.TabSwitch{View: view.Weapons},
			Position{View: view.Weapons},
		},
		{
			"pager on a top-level view",
			token.PageTurn{View: view.Ladder, Page: 2},
			Position{View: view.Ladder, Page: 2},
		},
		{
			"pager inside a drill-down keeps the parent context",
			token.PageTurn{View: view.WeaponPlayers, Page: 1, Param: "Rifle", ParentPage: 1},
			Position{View: view.WeaponPlayers, Page: 1, Param: "Rifle", ParentPage: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_invalid(t *testing.T) {
	t.Parallel()

	// A drill-down pager token that lost its parent context breaks
	// back-navigation and must be rejected.
	_, err := Resolve(token.PageTurn{View: view.WeaponPlayers, Page: 1})
	assert.ErrorIs(t, err, token.ErrInvalid)

	// Menu tokens do not arrive through the button path.
	_, err = Resolve(token.MenuPick{View: view.Weapons})
	assert.ErrorIs(t, err, token.ErrInvalid)
}

func TestResolveMenu(t *testing.T) {
	t.Parallel()

	t.Run("weapon pick establishes a fresh drill-down", func(t *testing.T) {
		// Selecting "Rifle" from the weapons tab at weapons-page 1 must
		// start the child at page zero with the menu's page as parent.
		pos, err := ResolveMenu(token.MenuPick{View: view.Weapons, Page: 1}, "Rifle")
		require.NoError(t, err)
		assert.Equal(t, Position{
			View:       view.WeaponPlayers,
			Page:       0,
			Param:      "Rifle",
			ParentPage: 1,
		}, pos)
	})

	t.Run("map pick", func(t *testing.T) {
		pos, err := ResolveMenu(token.MenuPick{View: view.Maps, Page: 3}, "de_dust2")
		require.NoError(t, err)
		assert.Equal(t, Position{View: view.MapPlayers, Param: "de_dust2", ParentPage: 3}, pos)
	})

	t.Run("ladder pick reaches the terminal player profile", func(t *testing.T) {
		pos, err := ResolveMenu(token.MenuPick{View: view.Ladder, Page: 0}, "shroud")
		require.NoError(t, err)
		assert.Equal(t, Position{View: view.Player, Param: "shroud"}, pos)
	})

	t.Run("empty value is rejected", func(t *testing.T) {
		_, err := ResolveMenu(token.MenuPick{View: view.Weapons}, "")
		assert.ErrorIs(t, err, token.ErrInvalid)
	})
}

// Clicking previous on a drill-down's first page must leave both the child
// page and the parent context unchanged, end to end through the codec.
func TestResolve_drilldownPrevAtFirstPage(t *testing.T) {
	t.Parallel()

	id := token.PagerContext(view.WeaponPlayers, token.Prev, 0, "Rifle", 1)
	req, err := token.Decode(id)
	require.NoError(t, err)

	pos, err := Resolve(req)
	require.NoError(t, err)
	assert.Equal(t, Position{View: view.WeaponPlayers, Page: 0, Param: "Rifle", ParentPage: 1}, pos)
}
