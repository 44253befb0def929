package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/woodline/shopterm/domain"
	"github.com/woodline/shopterm/internal/config"
	"github.com/woodline/shopterm/internal/services/runner"
	"github.com/woodline/shopterm/usecase/auth"
	"github.com/woodline/shopterm/usecase/station"
	"github.com/woodline/shopterm/usecase/workplace"
)

type screen int

const (
	screenLogin screen = iota
	screenWorkplace
	screenPartnerLogin
	screenRole
)

// Controller owns all screen transitions. Screens are passive prompt
// units; every user action either resolves locally or is submitted to
// the task runner, and task results come back over the event channel.
type Controller struct {
	cfg        *config.Config
	auth       *auth.UseCase
	workplaces *workplace.UseCase
	station    *station.UseCase
	tasks      *runner.Runner
	logger     *zap.Logger

	in  *bufio.Scanner
	out io.Writer

	current          screen
	username         string
	partnerWorkplace string
	role             domain.Role

	mu  sync.Mutex
	doc *domain.Document // manifest owned by the active role screen
}

// New creates the terminal controller.
func New(
	cfg *config.Config,
	authUC *auth.UseCase,
	workplaceUC *workplace.UseCase,
	stationUC *station.UseCase,
	tasks *runner.Runner,
	in io.Reader,
	out io.Writer,
	logger *zap.Logger,
) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		cfg:        cfg,
		auth:       authUC,
		workplaces: workplaceUC,
		station:    stationUC,
		tasks:      tasks,
		in:         bufio.NewScanner(in),
		out:        out,
		logger:     logger,
	}
}

// Run drives the terminal until the context is cancelled or input ends.
func (c *Controller) Run(ctx context.Context) error {
	go c.drainEvents(ctx)

	c.printf("%s — shop floor terminal", c.cfg.AppName)
	for {
		if ctx.Err() != nil {
			return nil
		}
		var ok bool
		switch c.current {
		case screenLogin:
			ok = c.loginScreen(ctx)
		case screenWorkplace:
			ok = c.workplaceScreen(ctx)
		case screenPartnerLogin:
			ok = c.partnerLoginScreen(ctx)
		case screenRole:
			ok = c.roleScreen(ctx)
		}
		if !ok {
			return nil
		}
	}
}

func (c *Controller) loginScreen(ctx context.Context) bool {
	c.printf("— authorization —")
	username, ok := c.readLine("username: ")
	if !ok {
		return false
	}
	password, ok := c.readLine("password: ")
	if !ok {
		return false
	}

	if err := c.auth.Login(ctx, username, password); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
			c.printf("invalid username or password")
		} else {
			c.printf("authorization failed: %v", err)
		}
		return true
	}

	c.username = strings.TrimSpace(username)
	c.printf("operator %q authorized", c.username)
	c.current = screenWorkplace
	return true
}

func (c *Controller) workplaceScreen(ctx context.Context) bool {
	available, err := c.workplaces.List(ctx, c.username)
	if err != nil {
		c.printf("failed to load workplaces: %v", err)
		c.current = screenLogin
		return true
	}

	c.printf("— select workplace —")
	for i, name := range available {
		c.printf("  %d. %s", i+1, name)
	}
	line, ok := c.readLine("workplace number: ")
	if !ok {
		return false
	}
	idx, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || idx < 1 || idx > len(available) {
		c.printf("pick a number between 1 and %d", len(available))
		return true
	}

	sel := c.workplaces.Select(c.username, available[idx-1])
	c.printf("workplace selected: %s", sel.Workplace)

	switch {
	case sel.NeedsPartner:
		c.partnerWorkplace = sel.PartnerWorkplace
		c.printf("workplace %s requires secondary authorization of a partner for %s",
			sel.Workplace, sel.PartnerWorkplace)
		c.current = screenPartnerLogin
	case sel.Role == domain.RoleNone:
		c.printf("no screen is mapped to workplace %q", sel.Workplace)
	default:
		c.enterRole(sel.Role)
	}
	return true
}

func (c *Controller) partnerLoginScreen(ctx context.Context) bool {
	c.printf("— partner authorization for %s ('back' to return) —", c.partnerWorkplace)
	username, ok := c.readLine("partner username: ")
	if !ok {
		return false
	}
	if strings.TrimSpace(username) == "back" {
		c.current = screenWorkplace
		return true
	}
	password, ok := c.readLine("partner password: ")
	if !ok {
		return false
	}

	if err := c.auth.PartnerLogin(ctx, username, password, c.partnerWorkplace); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
			c.printf("invalid username or password")
		} else {
			c.printf("access denied: %v", err)
		}
		return true
	}

	c.printf("partner %q authorized for %s", strings.TrimSpace(username), c.partnerWorkplace)
	c.enterRole(domain.RoleSaw)
	return true
}

func (c *Controller) enterRole(role domain.Role) {
	c.role = role
	c.setDoc(nil)
	c.current = screenRole
	c.printf("— %s station —", role)
	switch role {
	case domain.RolePacker:
		c.printf("commands: fetch | <order> [defect] [facade] [single] | exit")
	case domain.RoleFurniturePacker:
		c.printf("commands: fetch | <order> [defect] | exit")
	default:
		c.printf("commands: <order> [defect] | exit")
	}
}

func (c *Controller) roleScreen(ctx context.Context) bool {
	line, ok := c.readLine(fmt.Sprintf("%s> ", c.role))
	if !ok {
		return false
	}
	order, flags := parseCommand(line)
	switch order {
	case "":
		return true
	case "exit", "quit":
		return false
	}

	switch c.role {
	case domain.RoleSaw:
		c.submitSawOrder(order, flags)
	case domain.RoleEdgeBander:
		c.submitStationOrder(order, flags, true)
	case domain.RoleCNC:
		c.submitStationOrder(order, flags, false)
	case domain.RolePacker:
		if order == "fetch" {
			c.submitFetchManifest(false, "packages.pdf")
		} else {
			c.submitPackerSearch(order, flags)
		}
	case domain.RoleFurniturePacker:
		if order == "fetch" {
			c.submitFetchManifest(true, "packages_mebel.pdf")
		} else {
			c.submitManifestSearch(order, flags)
		}
	}
	return true
}

func (c *Controller) drainEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.tasks.Events():
			c.renderEvent(ev)
		}
	}
}

func (c *Controller) renderEvent(ev runner.Event) {
	switch ev.Kind {
	case runner.EventConsole:
		c.printf("%s", ev.Text)
	case runner.EventWarning:
		c.printf("!! %s: %s", ev.Title, ev.Text)
	case runner.EventSetPath:
		c.printf("manifest: %s", ev.Text)
	case runner.EventClearInput:
		// a line terminal holds no persistent input to clear
	}
}

func (c *Controller) setDoc(doc *domain.Document) {
	c.mu.Lock()
	c.doc = doc
	c.mu.Unlock()
}

func (c *Controller) getDoc() *domain.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc
}

func (c *Controller) readLine(prompt string) (string, bool) {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		return "", false
	}
	return c.in.Text(), true
}

func (c *Controller) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

type commandFlags struct {
	penalty bool
	facade  bool
	single  bool
}

func (f commandFlags) operation() domain.OperationType {
	if f.penalty {
		return domain.OperationPenalty
	}
	return domain.OperationEarning
}

func parseCommand(line string) (string, commandFlags) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", commandFlags{}
	}
	var flags commandFlags
	for _, field := range fields[1:] {
		switch strings.ToLower(field) {
		case "defect", "penalty", "-p":
			flags.penalty = true
		case "facade", "-f":
			flags.facade = true
		case "single", "-s":
			flags.single = true
		}
	}
	return fields[0], flags
}
