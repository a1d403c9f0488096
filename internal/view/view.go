// Package view enumerates the navigable views of the panel and their
// relationships: which toolbar tab a view highlights, which parent list a
// drill-down view belongs to, and which drill-down a list's select menu
// leads to.
package view

// PageSize is the fixed number of rows on every paginated view.
const PageSize = 10

type View int

const (
	None View = iota
	Home
	Ladder
	Weapons
	Maps
	WeaponPlayers
	MapPlayers
	// Player is the terminal single-record view reached by picking a player
	// from the ladder's select menu. It has no pager and no tab of its own.
	Player
)

type info struct {
	name   string
	title  string
	tab    View
	parent View
	child  View
	paged  bool
}

var infos = map[View]info{
	Home:          {name: "home", title: "Server Overview", tab: Home},
	Ladder:        {name: "ladder", title: "Player Ladder", tab: Ladder, child: Player, paged: true},
	Weapons:       {name: "weapons", title: "Weapon Leaderboard", tab: Weapons, child: WeaponPlayers, paged: true},
	Maps:          {name: "maps", title: "Map Leaderboard", tab: Maps, child: MapPlayers, paged: true},
	WeaponPlayers: {name: "wplayers", title: "Top Players With", tab: Weapons, parent: Weapons, paged: true},
	MapPlayers:    {name: "mplayers", title: "Top Players On", tab: Maps, parent: Maps, paged: true},
	Player:        {name: "player", title: "Player Profile", tab: Ladder, parent: Ladder},
}

// Tabs are the top-level views rendered as toolbar buttons, in display
// order. Drill-down views are deliberately absent: they highlight their
// parent's tab instead.
var Tabs = []View{Home, Ladder, Weapons, Maps}

var byName = func() map[string]View {
	m := make(map[string]View, len(infos))
	for v, i := range infos {
		m[i.name] = v
	}
	return m
}()

// Lookup resolves a token field to a view. Unknown names are rejected by the
// caller, never defaulted.
func Lookup(name string) (View, bool) {
	v, ok := byName[name]
	return v, ok
}

// Name is the identifier used in encoded tokens.
func (v View) Name() string { return infos[v].name }

func (v View) Title() string { return infos[v].title }

// Tab is the toolbar tab highlighted while this view is active. Drill-down
// views highlight their parent's tab.
func (v View) Tab() View { return infos[v].tab }

// Parent is the list view a drill-down was launched from, or None for
// top-level views.
func (v View) Parent() View { return infos[v].parent }

// Child is the drill-down view reached by picking an option from this view's
// select menu, or None if the view has no menu.
func (v View) Child() View { return infos[v].child }

// Paged reports whether the view renders ten-row pages with a pager.
func (v View) Paged() bool { return infos[v].paged }

// TopLevel reports whether the view carries no drill-down context.
func (v View) TopLevel() bool { return infos[v].parent == None }

func (v View) String() string { return infos[v].name }

// Offset converts a zero-based page number into a row offset.
func Offset(page int) int { return page * PageSize }
