// Package console provides the interactive front-end: search, favorites
// and recommendation views feeding the shared player state, plus a
// status line standing in for the persistent player bar.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	zlog "github.com/rs/zerolog/log"

	"github.com/wavedial/wavedial/internal/app/player"
	"github.com/wavedial/wavedial/internal/app/state"
	"github.com/wavedial/wavedial/internal/domain/station"
	"github.com/wavedial/wavedial/internal/infra/api"
	"github.com/wavedial/wavedial/internal/infra/store"
)

const defaultPageSize = 10

// Console is the interactive command loop.
type Console struct {
	api     *api.Client
	shared  *state.Manager
	session *player.Session
	store   *store.Store

	in  io.Reader
	out io.Writer

	// Last listed view results; "play N" builds the playlist from them.
	results station.Playlist
}

// New creates a console bound to the given collaborators.
func New(apiClient *api.Client, shared *state.Manager, session *player.Session, st *store.Store, in io.Reader, out io.Writer) *Console {
	return &Console{
		api:     apiClient,
		shared:  shared,
		session: session,
		store:   st,
		in:      in,
		out:     out,
	}
}

// Run reads commands until EOF, "quit", or ctx is done. The status
// renderer runs alongside it.
func (c *Console) Run(ctx context.Context) error {
	go c.renderStatus(ctx)

	fmt.Fprintln(c.out, "wavedial — type 'help' for commands")

	scanner := bufio.NewScanner(c.in)
	for {
		fmt.Fprint(c.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		if cmd == "quit" || cmd == "exit" {
			return nil
		}
		if err := c.dispatch(ctx, cmd, args); err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
	}
}

func (c *Console) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		c.printHelp()
	case "login":
		return c.login(ctx, args)
	case "register":
		return c.register(ctx, args)
	case "whoami":
		return c.whoami(ctx)
	case "search":
		return c.search(ctx, args)
	case "favorites":
		return c.favorites(ctx)
	case "recommend":
		return c.recommend(ctx, args)
	case "play":
		return c.play(args)
	case "pause":
		c.session.Pause()
	case "resume":
		c.session.Play()
	case "next":
		return c.navigate(player.Next)
	case "prev":
		return c.navigate(player.Previous)
	case "retry":
		c.session.Retry()
	case "vol":
		return c.volume(args)
	case "mute":
		return c.mute(true)
	case "unmute":
		return c.mute(false)
	case "fav":
		return c.favorite(ctx, args, true)
	case "unfav":
		return c.favorite(ctx, args, false)
	case "hide":
		c.shared.SetVisible(false)
	case "show":
		c.shared.SetVisible(true)
	case "status":
		c.printStatus()
	case "close":
		c.shared.ClearStation()
	default:
		return fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
	return nil
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, `commands:
  login <user> <pass>            authenticate
  register <user> <email> <pass> create an account
  whoami                         show profile
  search <name> [country]        search stations
  favorites                      list favorite stations
  recommend [limit]              AI-derived recommendations
  play <n>                       play station n from the last list
  pause | resume | retry         playback control
  next | prev                    navigate the active playlist
  vol <0-100> | mute | unmute    output control
  fav <n> | unfav <n>            toggle favorite for station n
  status | hide | show | close   player bar control
  quit
`)
}

func (c *Console) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: login <user> <pass>")
	}
	u, err := c.api.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	c.persistTokens()
	fmt.Fprintf(c.out, "logged in as %s\n", u.Username)
	return nil
}

func (c *Console) register(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: register <user> <email> <pass>")
	}
	u, err := c.api.Register(ctx, args[0], args[1], args[2])
	if err != nil {
		return err
	}
	c.persistTokens()
	fmt.Fprintf(c.out, "registered as %s\n", u.Username)
	return nil
}

func (c *Console) persistTokens() {
	token, refresh := c.api.Tokens()
	if err := c.store.SaveTokens(token, refresh); err != nil {
		zlog.Warn().Err(err).Msg("console: could not persist tokens")
	}
}

func (c *Console) whoami(ctx context.Context) error {
	u, err := c.api.Profile(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s <%s>\n", u.Username, u.Email)
	return nil
}

func (c *Console) search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: search <name> [country]")
	}
	params := api.SearchParams{Name: args[0], Size: defaultPageSize}
	if len(args) > 1 {
		params.Country = args[1]
	}
	page, err := c.api.SearchStations(ctx, params)
	if err != nil {
		return err
	}
	c.showResults(page.Content, fmt.Sprintf("%d stations (page %d/%d)", page.TotalElements, page.Page+1, page.TotalPages))
	return nil
}

func (c *Console) favorites(ctx context.Context) error {
	page, err := c.api.Favorites(ctx, 0, defaultPageSize)
	if err != nil {
		return err
	}
	c.showResults(page.Content, fmt.Sprintf("%d favorites", page.TotalElements))
	return nil
}

func (c *Console) recommend(ctx context.Context, args []string) error {
	limit := defaultPageSize
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("usage: recommend [limit]")
		}
		limit = n
	}
	stations, reason, err := c.api.Recommendations(ctx, limit)
	if err != nil {
		return err
	}
	if reason != "" {
		fmt.Fprintf(c.out, "why: %s\n", reason)
	}
	c.showResults(stations, fmt.Sprintf("%d recommendations", len(stations)))
	return nil
}

func (c *Console) showResults(stations []station.Station, header string) {
	c.results = make(station.Playlist, len(stations))
	copy(c.results, stations)

	fmt.Fprintln(c.out, header)
	for i := range c.results {
		st := &c.results[i]
		mark := " "
		if st.IsFavorite {
			mark = "*"
		}
		fmt.Fprintf(c.out, "%3d%s %s", i+1, mark, st.Name)
		if st.Country != "" {
			fmt.Fprintf(c.out, " [%s]", st.Country)
		}
		if st.Bitrate > 0 {
			fmt.Fprintf(c.out, " %dkbps", st.Bitrate)
		}
		fmt.Fprintln(c.out)
	}
}

// play makes the last listed results the active playlist and requests
// the chosen station. The playback session observes the request through
// shared state; the view never touches the engine.
func (c *Console) play(args []string) error {
	st, err := c.pick(args)
	if err != nil {
		return err
	}
	c.shared.SetPlaylist(c.results)
	c.shared.RequestStation(st)
	return nil
}

func (c *Console) navigate(move func(station.Playlist, *station.Station) (station.Station, bool)) error {
	current, ok := c.shared.CurrentStation()
	if !ok {
		return fmt.Errorf("nothing is playing")
	}
	target, ok := move(c.shared.Playlist(), current)
	if !ok {
		// Stale navigation context, not a fault.
		return nil
	}
	c.shared.RequestStation(&target)
	return nil
}

func (c *Console) volume(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: vol <0-100>")
	}
	pct, err := strconv.Atoi(args[0])
	if err != nil || pct < 0 || pct > 100 {
		return fmt.Errorf("usage: vol <0-100>")
	}
	c.session.SetVolume(float64(pct) / 100)
	c.persistOutput()
	return nil
}

func (c *Console) mute(muted bool) error {
	c.session.SetMuted(muted)
	c.persistOutput()
	return nil
}

func (c *Console) persistOutput() {
	if err := c.store.SaveOutput(c.session.Volume(), c.session.Muted()); err != nil {
		zlog.Warn().Err(err).Msg("console: could not persist output state")
	}
}

func (c *Console) favorite(ctx context.Context, args []string, add bool) error {
	st, err := c.pick(args)
	if err != nil {
		return err
	}
	id := st.StationUUID
	if id == "" {
		id = strconv.FormatInt(st.ID, 10)
	}
	if add {
		err = c.api.AddFavorite(ctx, id)
	} else {
		err = c.api.RemoveFavorite(ctx, id)
	}
	if err != nil {
		return err
	}
	st.IsFavorite = add
	fmt.Fprintln(c.out, "ok")
	return nil
}

// pick resolves a 1-based index argument against the last listed
// results.
func (c *Console) pick(args []string) (*station.Station, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("expected a station number")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(c.results) {
		return nil, fmt.Errorf("no station %q in the last list", args[0])
	}
	return &c.results[n-1], nil
}

func (c *Console) printStatus() {
	phase := c.session.Phase()
	fmt.Fprintf(c.out, "phase: %s", phase)
	if st, ok := c.shared.CurrentStation(); ok {
		fmt.Fprintf(c.out, " | station: %s", st.Name)
	}
	fmt.Fprintf(c.out, " | vol: %d%%", int(c.session.Volume()*100))
	if c.session.Muted() {
		fmt.Fprint(c.out, " (muted)")
	}
	if kind, ok := c.session.LastError(); ok {
		fmt.Fprintf(c.out, " | %s", kind.Message())
	}
	fmt.Fprintln(c.out)
}

// renderStatus is the player bar: it reflects shared state changes as
// status lines, including the distinct autoplay-blocked instruction.
func (c *Console) renderStatus(ctx context.Context) {
	id, ch := c.shared.Subscribe()
	defer c.shared.Unsubscribe(id)

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ch:
			switch ev.Type {
			case state.EventStationChanged:
				if ev.Station != nil {
					fmt.Fprintf(c.out, "\n♪ tuning to %s\n", ev.Station.Name)
				} else {
					fmt.Fprintln(c.out, "\n♪ player closed")
				}
			case state.EventPlayingChanged:
				if ev.Playing {
					if st, ok := c.shared.CurrentStation(); ok {
						fmt.Fprintf(c.out, "\n▶ now playing: %s\n", st.Name)
					}
				} else if kind, ok := c.session.LastError(); ok {
					fmt.Fprintf(c.out, "\n✖ %s\n", kind.Message())
				}
			}
		}
	}
}
