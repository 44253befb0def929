package console

import (
	"context"
	"fmt"

	"github.com/woodline/shopterm/domain"
	"github.com/woodline/shopterm/internal/services/runner"
)

// Role-screen actions. Each user action becomes one task; its steps run
// in sequence on a single worker and report back through events only.

func (c *Controller) submitSawOrder(order string, flags commandFlags) {
	op := flags.operation()
	c.printf("processing %s, operation %s", order, op)
	c.submit("saw-order", func(ctx context.Context, emit runner.Emit) {
		if op.Printable() {
			emit(console("printing QR label for " + order + "..."))
		} else {
			emit(console("defect marked, label print skipped"))
		}
		msg, err := c.station.CompleteSawOrder(ctx, order, op)
		if err != nil {
			emit(console("failed to process order: " + userMessage(err)))
		} else {
			emit(console(msg))
		}
		emit(clearInput())
	})
}

// submitStationOrder drives the edge-bander and CNC screens: validate,
// then record, no printing. The edge-bander always reports the facade
// as operator-prepared.
func (c *Controller) submitStationOrder(order string, flags commandFlags, facadePrepared bool) {
	op := flags.operation()
	c.printf("sending %s, operation %s", order, op)
	c.submit("station-order", func(ctx context.Context, emit runner.Emit) {
		if msg, err := c.station.Validate(ctx, order, facadePrepared); err != nil {
			emit(console("order validation failed: " + userMessage(err)))
			emit(clearInput())
			return
		} else if msg != "" {
			emit(console(msg))
		}

		emit(console("sending work data..."))
		msg, err := c.station.RecordCrewWork(ctx, order, op)
		if err != nil {
			emit(console("failed to record work: " + userMessage(err)))
		} else {
			emit(console(msg))
		}
		emit(clearInput())
	})
}

func (c *Controller) submitFetchManifest(onlyPackagingMaterials bool, filename string) {
	path := c.cfg.ManifestPath(filename)
	c.printf("fetching current labels...")
	c.submit("fetch-manifest", func(ctx context.Context, emit runner.Emit) {
		doc, err := c.station.FetchManifest(ctx, onlyPackagingMaterials, path)
		if err != nil {
			emit(console("failed to fetch labels: " + userMessage(err)))
			return
		}
		c.setDoc(doc)
		emit(runner.Event{Kind: runner.EventSetPath, Text: path})
		emit(console(fmt.Sprintf("manifest loaded (%d pages)", doc.PageCount())))
	})
}

// submitPackerSearch handles the packer screen: validate, then either
// search the loaded manifest, or in single mode download the order's own
// label document and print without recording.
func (c *Controller) submitPackerSearch(order string, flags commandFlags) {
	if !flags.single && c.getDoc() == nil {
		c.printf("!! fetch the manifest from the server first")
		return
	}
	op := flags.operation()
	c.printf("searching for %s (operation %s)...", order, op)
	c.submit("packer-search", func(ctx context.Context, emit runner.Emit) {
		if msg, err := c.station.Validate(ctx, order, flags.facade); err != nil {
			emit(console("order validation failed: " + userMessage(err)))
			emit(clearInput())
			return
		} else if msg != "" {
			emit(console(msg))
		}

		if flags.single {
			c.runSinglePackage(ctx, emit, order)
			return
		}
		c.runManifestOrder(ctx, emit, c.getDoc(), order, op)
	})
}

// submitManifestSearch handles the furniture-packer screen: search the
// packaging-materials manifest with no pre-validation.
func (c *Controller) submitManifestSearch(order string, flags commandFlags) {
	doc := c.getDoc()
	if doc == nil {
		c.printf("!! fetch the manifest from the server first")
		return
	}
	op := flags.operation()
	c.printf("searching for %s (operation %s)...", order, op)
	c.submit("manifest-search", func(ctx context.Context, emit runner.Emit) {
		c.runManifestOrder(ctx, emit, doc, order, op)
	})
}

func (c *Controller) runManifestOrder(ctx context.Context, emit runner.Emit, doc *domain.Document, order string, op domain.OperationType) {
	ref, found := c.station.Find(doc, order)
	if !found {
		emit(console(fmt.Sprintf("order %s not found in the manifest", order)))
		emit(clearInput())
		return
	}
	emit(console(fmt.Sprintf("found %s on page %d", order, ref.Number())))

	if op.Printable() {
		emit(console("sending page to the printer..."))
	} else {
		emit(console("defect marked, label print skipped"))
	}
	msg, err := c.station.CompleteFromManifest(ctx, doc, ref, order, op)
	if err != nil {
		emit(console("failed to process order: " + userMessage(err)))
	} else {
		emit(console(msg))
	}
	emit(clearInput())
}

func (c *Controller) runSinglePackage(ctx context.Context, emit runner.Emit, order string) {
	emit(console(fmt.Sprintf("fetching label for order %s...", order)))
	doc, err := c.station.FetchOrderManifest(ctx, order, c.cfg.ManifestPath("single_package.pdf"))
	if err != nil {
		emit(console("failed to fetch label: " + userMessage(err)))
		emit(clearInput())
		return
	}

	ref, found := c.station.Find(doc, order)
	if !found {
		emit(console(fmt.Sprintf("order %s not found in its label document", order)))
		emit(clearInput())
		return
	}
	emit(console(fmt.Sprintf("found %s on page %d", order, ref.Number())))
	emit(console("sending page to the printer..."))

	// download-and-print only: no work record follows
	if err := c.station.PrintManifestPage(ctx, doc, ref); err != nil {
		emit(console("failed to print: " + userMessage(err)))
	} else {
		emit(console("label sent to the printer"))
	}
	emit(clearInput())
}

func (c *Controller) submit(name string, fn runner.TaskFunc) {
	if !c.tasks.Submit(name, fn) {
		c.printf("!! the terminal is busy, try again")
	}
}

func console(text string) runner.Event {
	return runner.Event{Kind: runner.EventConsole, Text: text}
}

func clearInput() runner.Event {
	return runner.Event{Kind: runner.EventClearInput}
}

func userMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
