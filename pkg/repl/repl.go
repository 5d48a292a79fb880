package repl

import (
	"bufio"
	"io"

	"github.com/bobboyms/kvstore/pkg/storage"
)

/*
Repl owns the line-oriented command loop: framing (line-based reads),
protocol parsing, dispatch and reply writing.

Execution is strictly serial: each input line is processed to
completion, including its fsync, before the next line is read.
That is the scheduling model the engine's invariants assume.
*/
type Repl struct {
	engine *storage.Engine
	in     io.Reader
	out    io.Writer
}

func New(engine *storage.Engine, in io.Reader, out io.Writer) *Repl {
	return &Repl{
		engine: engine,
		in:     in,
		out:    out,
	}
}

/*
Run consome o input até EOF ou EXIT.

Linhas vazias são ignoradas. Cada resposta é escrita e flushada antes
da próxima leitura: o protocolo é request/reply sobre stdio.
*/
func (r *Repl) Run() error {
	scanner := bufio.NewScanner(r.in)
	writer := bufio.NewWriter(r.out)

	for scanner.Scan() {
		line := scanner.Text()

		cmd, err := ParseLine(line)
		if err != nil {
			switch err {
			case ErrEmptyCommand:
				continue
			case ErrUnknownCommand:
				r.reply(writer, replyUnknownCommand)
			default:
				r.reply(writer, replyBadCommand)
			}
			continue
		}

		if cmd.Name == CommandExit {
			return nil
		}

		r.reply(writer, r.executeCommand(cmd)...)
	}

	return scanner.Err()
}

func (r *Repl) reply(w *bufio.Writer, lines ...string) {
	for _, line := range lines {
		w.WriteString(line)
		w.WriteByte('\n')
	}
	w.Flush()
}
