package repl

import (
	"strconv"
	"strings"
)

/*
Reply lines are the wire format. This is the only place where
protocol-level formatting decisions (like "OK", "nil", "ERR") are made.
*/
const (
	replyOK             = "OK"
	replyNil            = "nil"
	replyEnd            = "END"
	replyBadCommand     = "ERR bad command"
	replyUnknownCommand = "ERR unknown command"
	replyBadValue       = "ERR bad value"
	replyInternalError  = "ERR internal error"
)

/*
executeCommand maps a validated protocol command to engine operations.
It contains no IO: replies come back as lines for the loop to write.
*/
func (r *Repl) executeCommand(cmd Command) []string {
	switch cmd.Name {

	case CommandGet:
		value, ok := r.engine.Get(cmd.Args[0])
		if !ok {
			return []string{replyNil}
		}
		return []string{value}

	case CommandSet:
		// O valor é o join dos tokens a partir do terceiro, com espaço
		// simples (espaços internos sobrevivem ao round-trip pelo WAL)
		value := strings.Join(cmd.Args[1:], " ")
		if err := r.engine.Set(cmd.Args[0], value); err != nil {
			return []string{replyInternalError}
		}
		return []string{replyOK}

	case CommandDel:
		n, err := r.engine.Del(cmd.Args[0])
		if err != nil {
			return []string{replyInternalError}
		}
		return []string{strconv.Itoa(n)}

	case CommandExists:
		if r.engine.Exists(cmd.Args[0]) {
			return []string{"1"}
		}
		return []string{"0"}

	case CommandMSet:
		// Cada par passa pelo write path da transação: dentro de
		// BEGIN/COMMIT os efeitos ficam bufferizados
		for i := 0; i < len(cmd.Args); i += 2 {
			if err := r.engine.Set(cmd.Args[i], cmd.Args[i+1]); err != nil {
				return []string{replyInternalError}
			}
		}
		return []string{replyOK}

	case CommandMGet:
		lines := make([]string, 0, len(cmd.Args))
		for _, key := range cmd.Args {
			if value, ok := r.engine.Get(key); ok {
				lines = append(lines, value)
			} else {
				lines = append(lines, replyNil)
			}
		}
		return lines

	case CommandBegin:
		r.engine.Begin()
		return []string{replyOK}

	case CommandCommit:
		if err := r.engine.Commit(); err != nil {
			return []string{replyInternalError}
		}
		return []string{replyOK}

	case CommandAbort:
		r.engine.Abort()
		return []string{replyOK}

	case CommandExpire:
		ms, err := strconv.ParseInt(cmd.Args[1], 10, 64)
		if err != nil {
			return []string{replyBadValue}
		}
		n, err := r.engine.Expire(cmd.Args[0], ms)
		if err != nil {
			return []string{replyInternalError}
		}
		return []string{strconv.Itoa(n)}

	case CommandTTL:
		return []string{strconv.FormatInt(r.engine.TTL(cmd.Args[0]), 10)}

	case CommandPersist:
		n, err := r.engine.Persist(cmd.Args[0])
		if err != nil {
			return []string{replyInternalError}
		}
		return []string{strconv.Itoa(n)}

	case CommandRange:
		keys := r.engine.Range(cmd.Args[0], cmd.Args[1])
		return append(keys, replyEnd)

	default:
		// ParseLine só deixa passar verbos registrados
		return []string{replyUnknownCommand}
	}
}
