package panel

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"fragboard/internal/logging"
	"fragboard/internal/pubsub"
	"fragboard/internal/stats"
	"fragboard/internal/token"
	"fragboard/internal/view"
)

// interactionTimeout bounds the data fetches and surface edits for a single
// interaction.
const interactionTimeout = 10 * time.Second

const apology = "Something went wrong — give it another try in a moment."

// StatSource provides the read-only projections behind every view.
type StatSource interface {
	Ladder() stats.Slicer
	Weapons() stats.Slicer
	Maps() stats.Slicer
	WeaponPlayers() stats.FilteredSlicer
	MapPlayers() stats.FilteredSlicer
	Player(ctx context.Context, name string) (stats.PlayerDetail, error)
	Suggest(ctx context.Context, scope stats.Scope, label string) string
}

// Editor performs the surface edits. Implemented by the discord client;
// faked in tests.
type Editor interface {
	// EditToolbar and EditContent overwrite a surface out of band.
	EditToolbar(ctx context.Context, p Payload) error
	EditContent(ctx context.Context, p Payload) error
	// Ack responds to an interaction by updating the message it originated
	// on.
	Ack(ic *discordgo.InteractionCreate, p Payload) error
	// RespondError sends the user a short ephemeral apology.
	RespondError(ic *discordgo.InteractionCreate, msg string) error
}

// Transition is the event payload published after a state change has been
// applied to the surfaces.
type Transition struct {
	Position Position
	// Forced is true for transitions not initiated by a user interaction:
	// the startup render and the inactivity reset. Forced transitions do
	// not count as activity.
	Forced bool
}

// Service handles the panel's component interactions: it decodes tokens,
// resolves transitions, fetches the slices the new position needs, and
// applies the result to both surfaces.
type Service struct {
	// Broker publishes a Transition for every applied state change.
	Broker *pubsub.Broker[Transition]

	state  *State
	stats  StatSource
	editor Editor
	logger logging.Interface
}

type ServiceOptions struct {
	State  *State
	Stats  StatSource
	Editor Editor
	Logger logging.Interface
}

func NewService(opts ServiceOptions) *Service {
	return &Service{
		Broker: pubsub.NewBroker[Transition](opts.Logger),
		state:  opts.State,
		stats:  opts.Stats,
		editor: opts.Editor,
		logger: opts.Logger,
	}
}

// HandleButton is the interaction handler for the panel's buttons: tab
// switches and pager clicks.
func (s *Service) HandleButton(ic *discordgo.InteractionCreate) {
	req, err := token.Decode(ic.MessageComponentData().CustomID)
	if err != nil {
		// Malformed or unrecognized token: ignore the interaction, log
		// only.
		s.logger.Warn("ignoring component interaction", "error", err)
		return
	}

	pos, err := Resolve(req)
	if err != nil {
		s.logger.Warn("ignoring component interaction", "error", err)
		return
	}

	s.transition(ic, pos)
}

// HandleSelect is the interaction handler for the panel's select menus:
// drill-down choices.
func (s *Service) HandleSelect(ic *discordgo.InteractionCreate) {
	data := ic.MessageComponentData()
	req, err := token.Decode(data.CustomID)
	if err != nil {
		s.logger.Warn("ignoring menu interaction", "error", err)
		return
	}

	pick, ok := req.(token.MenuPick)
	if !ok || len(data.Values) == 0 {
		s.logger.Warn("ignoring menu interaction", "custom_id", data.CustomID)
		return
	}

	pos, err := ResolveMenu(pick, data.Values[0])
	if err != nil {
		s.logger.Warn("ignoring menu interaction", "error", err)
		return
	}

	s.transition(ic, pos)
}

// transition carries an interaction-initiated state change through fetch,
// render and the dual edit. It is the outer error guard: any fault ends in
// a logged generic apology, never an unhandled error.
func (s *Service) transition(ic *discordgo.InteractionCreate, pos Position) {
	gen := s.state.Claim()

	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	snap, err := s.snapshot(ctx, pos)
	if err != nil {
		s.logger.Error("handling interaction", "error", err, "view", pos.View, "page", pos.Page)
		if err := s.editor.RespondError(ic, apology); err != nil {
			s.logger.Error("sending apology", "error", err)
		}
		return
	}

	if !s.state.Commit(gen, pos) {
		// A later interaction has already been applied; applying this one
		// would regress the panel.
		s.logger.Debug("discarding stale render", "generation", gen, "view", pos.View)
		return
	}

	// The two surfaces are edited concurrently to minimize the window in
	// which they disagree. The ack doubles as the edit of the surface the
	// interaction originated on. A partial failure is logged, not retried.
	toolbar, content := toolbarPayload(snap), contentPayload(snap)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		if s.originatedOnToolbar(ic) {
			err = s.editor.Ack(ic, toolbar)
		} else {
			err = s.editor.EditToolbar(ctx, toolbar)
		}
		if err != nil {
			s.logger.Error("updating toolbar surface", "error", err, "view", pos.View)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if s.originatedOnToolbar(ic) {
			err = s.editor.EditContent(ctx, content)
		} else {
			err = s.editor.Ack(ic, content)
		}
		if err != nil {
			s.logger.Error("updating content surface", "error", err, "view", pos.View)
		}
	}()
	wg.Wait()

	s.Broker.Publish(pubsub.UpdatedEvent, Transition{Position: pos})
}

// ForceHome renders the default view on both surfaces, outside of any
// interaction. Used for the startup render and the inactivity reset.
func (s *Service) ForceHome(ctx context.Context) error {
	gen := s.state.Claim()

	snap, err := s.snapshot(ctx, HomePosition)
	if err != nil {
		return err
	}
	if !s.state.Commit(gen, HomePosition) {
		return nil
	}

	toolbar, content := toolbarPayload(snap), contentPayload(snap)

	var wg sync.WaitGroup
	var toolbarErr, contentErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		toolbarErr = s.editor.EditToolbar(ctx, toolbar)
	}()
	go func() {
		defer wg.Done()
		contentErr = s.editor.EditContent(ctx, content)
	}()
	wg.Wait()

	s.Broker.Publish(pubsub.UpdatedEvent, Transition{Position: HomePosition, Forced: true})

	if toolbarErr != nil {
		return toolbarErr
	}
	return contentErr
}

func (s *Service) originatedOnToolbar(ic *discordgo.InteractionCreate) bool {
	toolbarID, _ := s.state.Surfaces()
	return ic.Message != nil && ic.Message.ID == toolbarID
}

// snapshot fetches everything the position needs: the page's rows and
// total, the rows backing the toolbar menu, and for the terminal player
// view the profile record.
func (s *Service) snapshot(ctx context.Context, pos Position) (snapshot, error) {
	snap := snapshot{pos: pos}

	switch pos.View {
	case view.Home:
		var err error
		if snap.players, err = s.stats.Ladder().Count(ctx); err != nil {
			return snap, err
		}
		if snap.weapons, err = s.stats.Weapons().Count(ctx); err != nil {
			return snap, err
		}
		if snap.maps, err = s.stats.Maps().Count(ctx); err != nil {
			return snap, err
		}
		return snap, nil

	case view.Ladder, view.Weapons, view.Maps:
		slicer := s.slicer(pos.View)
		rows, err := slicer.Slice(ctx, view.Offset(pos.Page), view.PageSize)
		if err != nil {
			return snap, err
		}
		total, err := slicer.Count(ctx)
		if err != nil {
			return snap, err
		}
		snap.rows, snap.total = rows, total
		// The menu offers exactly the rows on screen.
		snap.menuView, snap.menuPage, snap.menuRows = pos.View, pos.Page, rows
		return snap, nil

	case view.WeaponPlayers, view.MapPlayers:
		filtered := s.filtered(pos.View)
		rows, err := filtered.SliceFor(ctx, pos.Param, view.Offset(pos.Page), view.PageSize)
		if err != nil {
			return snap, err
		}
		total, err := filtered.CountFor(ctx, pos.Param)
		if err != nil {
			return snap, err
		}
		snap.rows, snap.total = rows, total
		if total == 0 {
			snap.suggestion = s.stats.Suggest(ctx, s.scope(pos.View), pos.Param)
		}
		return s.withParentMenu(ctx, snap)

	case view.Player:
		detail, err := s.stats.Player(ctx, pos.Param)
		switch {
		case errors.Is(err, stats.ErrNotFound):
			snap.suggestion = s.stats.Suggest(ctx, stats.ScopePlayers, pos.Param)
		case err != nil:
			return snap, err
		default:
			snap.detail = &detail
		}
		return s.withParentMenu(ctx, snap)
	}

	return snap, nil
}

// withParentMenu re-fetches the parent list's page so the toolbar menu
// stays synchronized while a drill-down is showing.
func (s *Service) withParentMenu(ctx context.Context, snap snapshot) (snapshot, error) {
	parent := snap.pos.View.Parent()
	rows, err := s.slicer(parent).Slice(ctx, view.Offset(snap.pos.ParentPage), view.PageSize)
	if err != nil {
		return snap, err
	}
	snap.menuView, snap.menuPage, snap.menuRows = parent, snap.pos.ParentPage, rows
	return snap, nil
}

func (s *Service) slicer(v view.View) stats.Slicer {
	switch v {
	case view.Weapons:
		return s.stats.Weapons()
	case view.Maps:
		return s.stats.Maps()
	}
	return s.stats.Ladder()
}

func (s *Service) filtered(v view.View) stats.FilteredSlicer {
	if v == view.MapPlayers {
		return s.stats.MapPlayers()
	}
	return s.stats.WeaponPlayers()
}

func (s *Service) scope(v view.View) stats.Scope {
	if v == view.MapPlayers {
		return stats.ScopeMaps
	}
	return stats.ScopeWeapons
}
