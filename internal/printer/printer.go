// Package printer writes styled status lines for CLI commands.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/colonyops/fmguard/internal/core/styles"
)

type ctxKey struct{}

// Printer writes human readable output. All methods append a newline.
type Printer struct {
	out io.Writer
}

func New(out io.Writer) *Printer {
	return &Printer{out: out}
}

// NewContext stores p on ctx.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the printer stored on ctx, or one writing to stdout.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok && p != nil {
		return p
	}
	return New(os.Stdout)
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.out
}

func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Successf(format string, args ...any) {
	p.status(styles.TextSuccessStyle.Render(styles.IconPass), format, args...)
}

func (p *Printer) Infof(format string, args ...any) {
	p.status(styles.TextMutedStyle.Render(styles.IconSkip), format, args...)
}

func (p *Printer) Warnf(format string, args ...any) {
	p.status(styles.TextWarningStyle.Render(styles.IconWarn), format, args...)
}

func (p *Printer) Errorf(format string, args ...any) {
	p.status(styles.TextErrorStyle.Render(styles.IconFail), format, args...)
}

func (p *Printer) status(icon, format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, "%s %s\n", icon, fmt.Sprintf(format, args...))
}
