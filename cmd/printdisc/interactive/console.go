// Package interactive provides the interactive command-line interface
// for printdisc.
package interactive

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"github.com/printkit/printkit-go/pkg/discovery"
	"github.com/printkit/printkit-go/pkg/log"
)

// Console handles interactive mode for printdisc.
type Console struct {
	manual *discovery.ManualDiscovery
	multi  *discovery.MultiDiscovery
	logger log.Logger
	rl     *readline.Instance

	mu         sync.Mutex
	announcing bool
	discovered map[string]*discovery.Printer // mDNS finds, keyed by URI
	closed     bool
}

// New creates a new interactive console. mdns may be nil when browsing
// is disabled.
func New(manual *discovery.ManualDiscovery, mdns *discovery.MDNSDiscovery, logger log.Logger) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "printdisc> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	sources := []discovery.Discoverer{manual}
	if mdns != nil {
		sources = append(sources, mdns)
	}

	return &Console{
		manual:     manual,
		multi:      discovery.NewMultiDiscovery(logger, sources...),
		logger:     logger,
		rl:         rl,
		discovered: make(map[string]*discovery.Printer),
	}, nil
}

// Stdout returns a writer that properly coordinates with the readline input.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Shutdown interrupts the command loop, e.g. from a signal handler.
func (c *Console) Shutdown() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.rl.Close()
}

// Run starts the interactive command loop. It returns when the user
// quits or Shutdown is called; the caller is responsible for persisting
// the registry afterwards.
func (c *Console) Run() {
	defer c.rl.Close()

	c.printHelp()

	for {
		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			// EOF or closed
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			return
		}

		c.mu.Lock()
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "add", "a":
			c.cmdAdd(args)

		case "list", "ls", "l":
			c.cmdList()

		case "remove", "rm":
			c.cmdRemove(args)

		case "start":
			c.cmdStart()

		case "stop":
			c.cmdStop()

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			return

		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown command %q. Type 'help' for commands.\n", cmd)
		}
	}
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.rl.Stdout(), `Commands:
  add <hostname>  - probe a hostname and add the printer
  list            - list registered and discovered printers
  remove <n>      - remove registered printer number n
  start           - start announcing / mDNS browsing
  stop            - stop announcing
  quit            - save the registry and exit`)
}

func (c *Console) cmdAdd(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.rl.Stdout(), "usage: add <hostname>")
		return
	}

	done := make(chan struct{})
	_, err := c.manual.AddManualPrinter(args[0], &addCallback{console: c, done: done})
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "add: %v\n", err)
		return
	}
	<-done
}

func (c *Console) cmdList() {
	printers := c.manual.Printers()
	out := c.rl.Stdout()

	if len(printers) == 0 {
		fmt.Fprintln(out, "No registered printers.")
	} else {
		fmt.Fprintln(out, "Registered printers:")
		for i, p := range printers {
			fmt.Fprintf(out, "  %d. %s\n", i+1, p)
		}
	}

	c.mu.Lock()
	discovered := make([]*discovery.Printer, 0, len(c.discovered))
	for _, p := range c.discovered {
		discovered = append(discovered, p)
	}
	c.mu.Unlock()

	if len(discovered) > 0 {
		fmt.Fprintln(out, "Discovered on the network:")
		for _, p := range discovered {
			fmt.Fprintf(out, "  - %s\n", p)
		}
	}
}

func (c *Console) cmdRemove(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.rl.Stdout(), "usage: remove <n>")
		return
	}
	n, err := strconv.Atoi(args[0])
	printers := c.manual.Printers()
	if err != nil || n < 1 || n > len(printers) {
		fmt.Fprintln(c.rl.Stdout(), "remove: no such printer")
		return
	}

	c.manual.RemoveManualPrinter(printers[n-1])
	fmt.Fprintf(c.rl.Stdout(), "Removed %s\n", printers[n-1])
}

func (c *Console) cmdStart() {
	c.mu.Lock()
	if c.announcing {
		c.mu.Unlock()
		fmt.Fprintln(c.rl.Stdout(), "Already started.")
		return
	}
	c.announcing = true
	c.mu.Unlock()

	if err := c.multi.Start((*consoleListener)(c)); err != nil {
		c.mu.Lock()
		c.announcing = false
		c.mu.Unlock()
		fmt.Fprintf(c.rl.Stdout(), "start: %v\n", err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), "Started.")
}

func (c *Console) cmdStop() {
	c.mu.Lock()
	if !c.announcing {
		c.mu.Unlock()
		fmt.Fprintln(c.rl.Stdout(), "Not started.")
		return
	}
	c.announcing = false
	c.discovered = make(map[string]*discovery.Printer)
	c.mu.Unlock()

	c.multi.Stop()
	fmt.Fprintln(c.rl.Stdout(), "Stopped.")
}

// consoleListener receives aggregated found/lost notifications.
type consoleListener Console

// PrinterFound records and prints a found printer.
func (cl *consoleListener) PrinterFound(p *discovery.Printer) {
	c := (*Console)(cl)
	c.mu.Lock()
	c.discovered[p.URI.String()] = p
	c.mu.Unlock()
	fmt.Fprintf(c.rl.Stdout(), "Found: %s\n", p)
}

// PrinterLost removes and prints a lost printer.
func (cl *consoleListener) PrinterLost(uri *url.URL) {
	c := (*Console)(cl)
	c.mu.Lock()
	delete(c.discovered, uri.String())
	c.mu.Unlock()
	fmt.Fprintf(c.rl.Stdout(), "Lost: %s\n", uri)
}

// addCallback prints the outcome of an add command.
type addCallback struct {
	console *Console
	done    chan struct{}
}

// Found reports the probe result.
func (cb *addCallback) Found(p *discovery.Printer, supported bool) {
	defer close(cb.done)
	if supported {
		fmt.Fprintf(cb.console.Stdout(), "Added %s\n", p)
	} else {
		fmt.Fprintf(cb.console.Stdout(), "Found %s but it is not supported\n", p)
	}
}

// NotFound reports that no probed path answered.
func (cb *addCallback) NotFound() {
	defer close(cb.done)
	fmt.Fprintln(cb.console.Stdout(), "No printer found.")
}
