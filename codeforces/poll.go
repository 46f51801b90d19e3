package codeforces

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/programme-lv/vjudge/provider"
	"github.com/programme-lv/vjudge/verdict"
)

// the remote reports memory in bytes; results carry KiB
const memoryDivisor = 1024

// Poll repeatedly fetches judging status for a submitted ticket and
// streams results to the callbacks. Per-case results come out in strict
// index order starting at 1, each exactly once; Final fires exactly once
// after all of them. There is no intrinsic iteration bound: the caller
// imposes an overall deadline through ctx, and cancellation aborts the
// loop without a Final emission.
func (p *Provider) Poll(ctx context.Context, remoteID string, cb provider.Callbacks) error {
	logger := p.logger.With("remote_id", remoteID)

	cursor := 1
	var timeSum, memMax int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.pollEvery):
		}

		resp, err := p.client.PostForm(ctx, p.url("/data/submitSource"), p.sess.CookieHeader(), url.Values{
			"csrf_token":   {p.sess.Csrf()},
			"submissionId": {remoteID},
		})
		if err != nil {
			return err
		}
		payload, err := parseStatusPayload(resp.Body)
		if err != nil {
			return ErrProtocolMismatch("status payload is not a json object", resp.Body).SetStage("poll").SetDebug(err)
		}

		// compilation happens asynchronously; the site can report a
		// compile error here even after the submit page showed none
		if payload.flag("compilationError") {
			if cb.CompileLog != nil {
				cb.CompileLog(payload.str("checkerStdoutAndStderr#1"))
			}
			cb.Final(provider.FinalResult{
				Status: verdict.StatusCompileError,
				Score:  0,
				TimeMs: 0,
				MemKiB: 0,
			})
			return nil
		}

		testCount := payload.num("testCount")
		for ; int64(cursor) <= testCount; cursor++ {
			caseVerdict := payload.str(fmt.Sprintf("verdict#%d", cursor))
			status, known := verdict.FromExact(caseVerdict)
			if !known {
				logger.Warn("unrecognized per-case verdict, defaulting to wrong answer", "verdict", caseVerdict)
				status = verdict.StatusWrongAnswer
			}
			timeMs := payload.num(fmt.Sprintf("timeConsumed#%d", cursor))
			memKiB := payload.num(fmt.Sprintf("memoryConsumed#%d", cursor)) / memoryDivisor
			msg := payload.str(fmt.Sprintf("checkerStdoutAndStderr#%d", cursor))
			if msg == "" {
				msg = caseVerdict
			}
			timeSum += timeMs
			if memKiB > memMax {
				memMax = memKiB
			}
			cb.Case(provider.CaseResult{
				ID:        cursor,
				SubtaskID: 1,
				Status:    status,
				TimeMs:    timeMs,
				MemKiB:    memKiB,
				Message:   msg,
			})
		}

		if payload.flag("waiting") {
			continue
		}

		aggRaw := payload.str("verdict")
		status, known := verdict.FromAggregate(aggRaw)
		if !known {
			logger.Warn("unrecognized aggregate verdict, defaulting to wrong answer", "verdict", aggRaw)
		}
		score := 0
		if status == verdict.StatusAccepted {
			score = 100
		}
		cb.Final(provider.FinalResult{
			Status: status,
			Score:  score,
			TimeMs: timeSum,
			MemKiB: memMax,
		})
		return nil
	}
}

// statusPayload is the flat key/value object the status-source endpoint
// returns: per-case fields keyed by suffix index plus aggregate flags.
// Values arrive as strings but the accessors tolerate raw numbers and
// booleans in case the endpoint changes its mind.
type statusPayload map[string]any

func parseStatusPayload(body []byte) (statusPayload, error) {
	var sp statusPayload
	if err := json.Unmarshal(body, &sp); err != nil {
		return nil, err
	}
	return sp, nil
}

func (sp statusPayload) str(key string) string {
	switch v := sp[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func (sp statusPayload) flag(key string) bool {
	switch v := sp[key].(type) {
	case string:
		return v == "true"
	case bool:
		return v
	default:
		return false
	}
}

func (sp statusPayload) num(key string) int64 {
	switch v := sp[key].(type) {
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return n
	case float64:
		return int64(v)
	default:
		return 0
	}
}
