package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"github.com/prattikkk/Incubyte/internal/models"
	"github.com/prattikkk/Incubyte/internal/notify"
	"github.com/prattikkk/Incubyte/internal/service"
	"github.com/prattikkk/Incubyte/internal/session"
)

// Shell is the interactive storefront. It translates typed commands into
// service calls and redraws the shelf and notification area after each one.
type Shell struct {
	auth     *service.AuthService
	sweets   *service.SweetService
	store    *session.Store
	notifier *notify.Center
	in       io.Reader
	out      io.Writer
	log      zerolog.Logger

	// Mutations are fire-and-refresh: lastFilter is re-applied on every
	// refresh, and lastList is only ever what the server last returned.
	lastFilter models.QueryFilter
	lastList   []models.Sweet
}

func New(
	auth *service.AuthService,
	sweets *service.SweetService,
	store *session.Store,
	notifier *notify.Center,
	in io.Reader,
	out io.Writer,
	log zerolog.Logger,
) *Shell {
	return &Shell{
		auth:     auth,
		sweets:   sweets,
		store:    store,
		notifier: notifier,
		in:       in,
		out:      out,
		log:      log,
	}
}

func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Sweet Shop, type 'help' for commands")

	s.refresh(ctx)
	s.render()

	scanner := bufio.NewScanner(s.in)
	for {
		s.prompt()

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return nil
		}

		args := splitArgs(scanner.Text())
		if len(args) == 0 {
			continue
		}

		if args[0] == "quit" || args[0] == "exit" {
			return nil
		}

		s.dispatch(ctx, args[0], args[1:])
		s.render()
	}
}

func (s *Shell) prompt() {
	if sess, ok := s.store.Current(); ok {
		fmt.Fprintf(s.out, "%s> ", sess.Username)
		return
	}
	fmt.Fprint(s.out, "> ")
}

func (s *Shell) dispatch(ctx context.Context, cmd string, args []string) {
	switch cmd {
	case "help":
		s.printHelp()
	case "login":
		s.cmdLogin(ctx, args)
	case "register":
		s.cmdRegister(ctx, args)
	case "logout":
		s.cmdLogout()
	case "whoami":
		s.cmdWhoami()
	case "list":
		s.cmdList(ctx, args)
	case "buy":
		s.cmdBuy(ctx, args)
	case "add":
		s.cmdAdd(ctx, args)
	case "edit":
		s.cmdEdit(ctx, args)
	case "del":
		s.cmdDelete(ctx, args)
	case "restock":
		s.cmdRestock(ctx, args)
	default:
		fmt.Fprintf(s.out, "unknown command %q, try 'help'\n", cmd)
	}
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `commands:
  list [name=..] [category=..] [min=..] [max=..]   browse the shelf
  buy <id> [quantity]                              purchase (login required)
  login <username> <password>
  register <username> <email> <password>
  logout
  whoami
  add <name> <category> <price> <quantity>         admin
  edit <id> <name> <category> <price> <quantity>   admin
  del <id>                                         admin
  restock <id> [quantity]                          admin
  quit
`)
}

func (s *Shell) cmdLogin(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.out, "usage: login <username> <password>")
		return
	}

	sess, err := s.auth.Login(ctx, args[0], args[1])
	if err != nil {
		s.fail(err)
		return
	}

	s.notifier.Push(fmt.Sprintf("Welcome back, %s", sess.Username), notify.KindSuccess, "")
	s.refresh(ctx)
}

func (s *Shell) cmdRegister(ctx context.Context, args []string) {
	if len(args) != 3 {
		fmt.Fprintln(s.out, "usage: register <username> <email> <password>")
		return
	}

	if err := s.auth.Register(ctx, args[0], args[1], args[2]); err != nil {
		s.fail(err)
		return
	}
	s.notifier.Push("Registered, you can log in now", notify.KindSuccess, "")
}

func (s *Shell) cmdLogout() {
	if err := s.auth.Logout(); err != nil {
		s.fail(err)
		return
	}
	s.notifier.Push("Logged out", notify.KindInfo, "")
}

func (s *Shell) cmdWhoami() {
	sess, ok := s.store.Current()
	if !ok {
		fmt.Fprintln(s.out, "anonymous")
		return
	}
	fmt.Fprintf(s.out, "%s %v\n", sess.Username, sess.Roles)
}

func (s *Shell) cmdList(ctx context.Context, args []string) {
	filter, err := parseFilterArgs(args)
	if err != nil {
		s.fail(err)
		return
	}

	s.lastFilter = filter
	s.refresh(ctx)
}

func (s *Shell) cmdBuy(ctx context.Context, args []string) {
	id, quantity, ok := s.idAndQuantity(args, "buy <id> [quantity]", 1)
	if !ok {
		return
	}

	if _, logged := s.store.Current(); !logged {
		fmt.Fprintln(s.out, "log in to buy")
		return
	}
	// Mirror the storefront button: sold-out items are not purchasable, but
	// whether stock suffices for a larger quantity stays the backend's call.
	for _, sw := range s.lastList {
		if sw.ID == id && !sw.InStock() {
			fmt.Fprintf(s.out, "%s is sold out\n", sw.Name)
			return
		}
	}

	sweet, err := s.sweets.Purchase(ctx, id, quantity)
	if err != nil {
		s.fail(err)
		return
	}

	s.notifier.Push(fmt.Sprintf("Purchased %d %s", quantity, sweet.Name), notify.KindSuccess, "")
	s.refresh(ctx)
}

func (s *Shell) cmdAdd(ctx context.Context, args []string) {
	if len(args) != 4 {
		fmt.Fprintln(s.out, "usage: add <name> <category> <price> <quantity>")
		return
	}

	input, err := service.ParseSweetInput(args[0], args[1], args[2], args[3])
	if err != nil {
		s.fail(err)
		return
	}

	created, err := s.sweets.Create(ctx, input)
	if err != nil {
		s.fail(err)
		return
	}

	s.notifier.Push(fmt.Sprintf("Added %s", created.Name), notify.KindSuccess, "")
	s.refresh(ctx)
}

func (s *Shell) cmdEdit(ctx context.Context, args []string) {
	if len(args) != 5 {
		fmt.Fprintln(s.out, "usage: edit <id> <name> <category> <price> <quantity>")
		return
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(s.out, "id %q is not a number\n", args[0])
		return
	}

	input, err := service.ParseSweetInput(args[1], args[2], args[3], args[4])
	if err != nil {
		s.fail(err)
		return
	}

	updated, err := s.sweets.Update(ctx, id, input)
	if err != nil {
		s.fail(err)
		return
	}

	s.notifier.Push(fmt.Sprintf("Updated %s", updated.Name), notify.KindSuccess, "")
	s.refresh(ctx)
}

func (s *Shell) cmdDelete(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "usage: del <id>")
		return
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(s.out, "id %q is not a number\n", args[0])
		return
	}

	if err := s.sweets.Remove(ctx, id); err != nil {
		s.fail(err)
		return
	}

	s.notifier.Push("Sweet removed", notify.KindInfo, "")
	s.refresh(ctx)
}

func (s *Shell) cmdRestock(ctx context.Context, args []string) {
	id, quantity, ok := s.idAndQuantity(args, "restock <id> [quantity]", 5)
	if !ok {
		return
	}

	sweet, err := s.sweets.Restock(ctx, id, quantity)
	if err != nil {
		s.fail(err)
		return
	}

	s.notifier.Push(fmt.Sprintf("Restocked %s to %d", sweet.Name, sweet.Quantity), notify.KindSuccess, "")
	s.refresh(ctx)
}

func (s *Shell) idAndQuantity(args []string, usage string, defaultQuantity int) (int64, int, bool) {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintf(s.out, "usage: %s\n", usage)
		return 0, 0, false
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(s.out, "id %q is not a number\n", args[0])
		return 0, 0, false
	}

	quantity := defaultQuantity
	if len(args) == 2 {
		quantity, err = strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(s.out, "quantity %q is not a number\n", args[1])
			return 0, 0, false
		}
	}
	return id, quantity, true
}

// refresh re-fetches the shelf with the current filter. Load failures surface
// like any other error; the previous listing stays on screen.
func (s *Shell) refresh(ctx context.Context) {
	sweets, err := s.sweets.List(ctx, s.lastFilter)
	if err != nil {
		s.fail(err)
		return
	}
	s.lastList = sweets
}

func (s *Shell) render() {
	if len(s.lastList) == 0 {
		fmt.Fprintln(s.out, "(no sweets on the shelf)")
	} else {
		w := tabwriter.NewWriter(s.out, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tQTY")
		for _, sw := range s.lastList {
			qty := strconv.Itoa(sw.Quantity)
			if !sw.InStock() {
				qty = "sold out"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%s\n", sw.ID, sw.Name, sw.Category, sw.Price, qty)
		}
		w.Flush()
	}

	for _, n := range s.notifier.Items() {
		if n.Title != "" {
			fmt.Fprintf(s.out, "[%s] %s: %s\n", n.Kind, n.Title, n.Message)
			continue
		}
		fmt.Fprintf(s.out, "[%s] %s\n", n.Kind, n.Message)
	}
}

func (s *Shell) fail(err error) {
	fmt.Fprintf(s.out, "error: %v\n", err)
	s.notifier.Push(err.Error(), notify.KindError, "")
	s.log.Debug().Err(err).Msg("command failed")
}
