package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mark3t-rep/internal/client/export"
	"github.com/dmitrijs2005/mark3t-rep/internal/client/models"
	"github.com/dmitrijs2005/mark3t-rep/internal/client/services"
	"github.com/dmitrijs2005/mark3t-rep/internal/client/signer"
	"github.com/dmitrijs2005/mark3t-rep/internal/common"
	"github.com/dmitrijs2005/mark3t-rep/internal/entityid"
)

const newWalletCodeLength = 16

var (
	errUsage          = errors.New("usage")
	errNothingLoaded  = errors.New("no ratings loaded")
	errExportDisabled = errors.New("export is not configured")
)

// fail reports err to the user and returns it.
func (a *App) fail(ctx context.Context, err error) error {
	fmt.Fprintln(a.out, common.UserMessage(err))
	a.logger.Warn(ctx, "command failed", "error", err)
	return err
}

func (a *App) usage(text string) error {
	fmt.Fprintln(a.out, "Usage:", text)
	return errUsage
}

func (a *App) Submit(ctx context.Context) error {
	idText, err := GetSimpleText(a.reader, "Seller id", a.out)
	if err != nil {
		return err
	}
	id, err := parseSubjectID(idText)
	if err != nil {
		return a.fail(ctx, err)
	}

	label, err := GetSimpleText(a.reader, "Seller name for a new seller (ignored once a name is known)", a.out)
	if err != nil {
		return err
	}

	in := models.RatingInput{SubjectID: id, SubjectLabel: label}
	scores := []struct {
		field, prompt string
		dst           *uint8
	}{
		{"articleScore", "Article score (1-5)", &in.ArticleScore},
		{"shippingScore", "Shipping score (1-5)", &in.ShippingScore},
		{"communicationScore", "Communication score (1-5)", &in.CommunicationScore},
	}
	for _, s := range scores {
		text, err := GetSimpleText(a.reader, s.prompt, a.out)
		if err != nil {
			return err
		}
		if *s.dst, err = parseScore(s.field, text); err != nil {
			return a.fail(ctx, err)
		}
	}

	if in.Comment, err = GetMultiline(a.reader, "Comment", a.out); err != nil {
		return err
	}

	res, err := a.submit.Submit(ctx, a.signer, in)
	if err != nil {
		return a.fail(ctx, err)
	}

	if label != "" {
		if kept := a.labels.Remember(ctx, id, label); kept != label {
			fmt.Fprintf(a.out, "Seller #%d is already known as %q\n", id, kept)
		}
	}
	fmt.Fprintf(a.out, "Rating submitted, transaction %s\n", res.Hash)
	return nil
}

func (a *App) List(ctx context.Context, args []string) error {
	var filter *uint32
	if len(args) > 0 {
		id, err := parseSubjectID(args[0])
		if err != nil {
			return a.fail(ctx, err)
		}
		filter = &id
	}

	res := a.query.Fetch(ctx, filter)
	if err := a.apply(res, filter); err != nil {
		return a.fail(ctx, err)
	}

	renderRatings(a.out, res.Ratings)
	if len(res.Ratings) > 0 {
		renderSummary(a.out, res.Summary)
	}
	return nil
}

func (a *App) Seller(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("seller <id>")
	}
	id, err := parseSubjectID(args[0])
	if err != nil {
		return a.fail(ctx, err)
	}
	return a.showSeller(ctx, id, a.query.Fetch(ctx, &id))
}

// Storage is Seller reading contract storage instead of running a query.
func (a *App) Storage(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("storage <id>")
	}
	id, err := parseSubjectID(args[0])
	if err != nil {
		return a.fail(ctx, err)
	}
	return a.showSeller(ctx, id, a.query.FetchFromStorage(ctx, id))
}

func (a *App) showSeller(ctx context.Context, id uint32, res services.FetchResult) error {
	if err := a.apply(res, &id); err != nil {
		return a.fail(ctx, err)
	}

	fmt.Fprintf(a.out, "%s (#%d, %s)\n", a.labels.Resolve(ctx, id), id, entityid.FromSubject(id).Hex())
	renderSummary(a.out, res.Summary)
	renderRatings(a.out, res.Ratings)
	return nil
}

// apply stores res in the view and returns its error. Stale results are
// dropped silently.
func (a *App) apply(res services.FetchResult, subject *uint32) error {
	if a.view.Apply(res) && res.Err == nil {
		a.viewSubject = subject
	}
	return res.Err
}

func (a *App) Summary(ctx context.Context) error {
	ratings, _, _ := a.view.Snapshot()
	if len(ratings) == 0 {
		fmt.Fprintln(a.out, "No ratings loaded, run list first")
		return errNothingLoaded
	}

	renderSubjectSummaries(a.out, a.query.Summaries(ratings), func(id uint32) string {
		return a.labels.Resolve(ctx, id)
	})
	return nil
}

func (a *App) History(ctx context.Context) error {
	items, err := a.submit.History(ctx, 20)
	if err != nil {
		return a.fail(ctx, err)
	}
	renderHistory(a.out, items)
	return nil
}

func (a *App) Export(ctx context.Context) error {
	if a.exporter == nil {
		fmt.Fprintln(a.out, "Export is not configured, set s3_bucket")
		return errExportDisabled
	}

	ratings, summary, _ := a.view.Snapshot()
	key, err := a.exporter.Export(ctx, export.Snapshot{
		GeneratedAt: a.now().UTC(),
		Subject:     a.viewSubject,
		Summary:     summary,
		Ratings:     ratings,
	})
	if err != nil {
		return a.fail(ctx, err)
	}

	fmt.Fprintf(a.out, "Exported %d ratings to %s\n", len(ratings), key)
	return nil
}

func (a *App) Wallet(ctx context.Context, args []string) error {
	if len(args) == 0 {
		if a.signer == nil {
			fmt.Fprintln(a.out, "No wallet connected")
		} else {
			fmt.Fprintln(a.out, "Connected wallet:", a.signer.Address())
		}
		return nil
	}

	var (
		kp  *signer.KeyPair
		err error
	)
	switch args[0] {
	case "dev":
		name := "Alice"
		if len(args) > 1 {
			name = args[1]
		}
		kp, err = signer.Dev(name)

	case "connect":
		var secret []byte
		if secret, err = GetSecret(a.out); err != nil {
			return a.fail(ctx, err)
		}
		kp, err = signer.FromSecret(secret)

	case "new":
		code := entityid.RandomCode(newWalletCodeLength)
		kp, err = signer.FromSecret([]byte(code))
		if err == nil {
			fmt.Fprintf(a.out, "Secret phrase of the new wallet: %s\nKeep it, it cannot be shown again.\n", code)
		}

	default:
		return a.usage("wallet [dev <name>|connect|new]")
	}
	if err != nil {
		return a.fail(ctx, err)
	}

	a.signer = kp
	a.logger.Info(ctx, "wallet connected", "address", kp.Address())
	fmt.Fprintln(a.out, "Connected wallet:", kp.Address())
	return nil
}

func (a *App) Disconnect(ctx context.Context) error {
	if a.signer == nil {
		fmt.Fprintln(a.out, "No wallet connected")
		return nil
	}
	a.logger.Info(ctx, "wallet disconnected", "address", a.signer.Address())
	a.signer = nil
	fmt.Fprintln(a.out, "Wallet disconnected")
	return nil
}

func (a *App) Reset(ctx context.Context) error {
	if a.repos != nil {
		if err := a.repos.Reset(ctx); err != nil {
			return a.fail(ctx, err)
		}
	}
	a.labels.Reset()
	fmt.Fprintln(a.out, "Local cache cleared")
	return nil
}
