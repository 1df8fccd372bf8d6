package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dekarrin/cpctplus/grammar"
	"github.com/dekarrin/cpctplus/recovery"
)

// decodeJSON reads and unmarshals req's body into v, which must be a
// pointer. The body is left readable for anything downstream that wants to
// re-read it.
func decodeJSON(req *http.Request, v interface{}) error {
	data, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	defer func() {
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(data))
	}()
	return json.Unmarshal(data, v)
}

// recoverRequest names the grammar to run against and its already-lexed
// input as token display names (e.g. "N", "+", "(", ")"); this server does
// not do lexing of its own.
type recoverRequest struct {
	Grammar string   `json:"grammar"`
	Tokens  []string `json:"tokens"`
}

type repairDTO struct {
	Kind string `json:"kind"`
	At   int    `json:"at,omitempty"`
}

type eventDTO struct {
	At          int           `json:"at"`
	Recovered   bool          `json:"recovered"`
	Applied     []repairDTO   `json:"applied,omitempty"`
	Candidates  [][]repairDTO `json:"candidates,omitempty"`
	LookaheadAt string        `json:"lookahead,omitempty"`
	Error       string        `json:"error,omitempty"`
}

type recoverResponse struct {
	Accepted bool       `json:"accepted"`
	Events   []eventDTO `json:"events"`
}

func toRepairDTOs(seq []recovery.ParseRepair) []repairDTO {
	out := make([]repairDTO, len(seq))
	for i, r := range seq {
		switch r.Kind {
		case recovery.ParseInsert:
			out[i] = repairDTO{Kind: "insert"}
		case recovery.ParseDelete:
			out[i] = repairDTO{Kind: "delete", At: r.Lexeme.Start}
		case recovery.ParseShift:
			out[i] = repairDTO{Kind: "shift", At: r.Lexeme.Start}
		}
	}
	return out
}

func (api API) handleRecover(w http.ResponseWriter, req *http.Request) {
	var body recoverRequest
	if err := decodeJSON(req, &body); err != nil {
		BadRequest("malformed request body", err.Error()).WriteResponse(w)
		return
	}

	demo, ok := api.Demos[body.Grammar]
	if !ok {
		BadRequest(fmt.Sprintf("unknown grammar %q", body.Grammar)).WriteResponse(w)
		return
	}

	tokens := make([]grammar.TokenIdx, len(body.Tokens))
	for i, name := range body.Tokens {
		t, ok := demo.TokenByName[strings.TrimSpace(name)]
		if !ok {
			BadRequest(fmt.Sprintf("unknown token %q for grammar %q", name, body.Grammar)).WriteResponse(w)
			return
		}
		tokens[i] = t
	}

	view := &recovery.TokenStreamView{
		G:      demo.Grammar,
		Table:  demo.Table,
		Tokens: tokens,
		Cost:   api.Config.TokenCostFunc(demo.Grammar),
	}
	searcher := &recovery.Searcher{
		View:             view,
		ParseAtLeast:     api.Config.ParseAtLeast,
		MaxFrontierNodes: api.Config.MaxFrontierNodes,
	}

	result := recovery.Drive(searcher, api.Config.Deadline(), nil)

	resp := recoverResponse{Accepted: result.Accepted}
	for _, ev := range result.Events {
		lookahead := demo.Grammar.TokenHuman(view.Lexeme(ev.Laidx).Token)
		dto := eventDTO{At: ev.Laidx, Recovered: ev.Recovered, LookaheadAt: lookahead}
		if ev.Recovered {
			dto.Applied = toRepairDTOs(ev.Applied)
		} else if ev.Err != nil {
			dto.Error = fmt.Sprintf("no repair found before %s at position %d", lookahead, ev.Laidx)
		}
		for _, cand := range ev.Candidates {
			dto.Candidates = append(dto.Candidates, toRepairDTOs(cand))
		}
		resp.Events = append(resp.Events, dto)
	}

	OK(resp, "recovery for grammar %q, reqid=%s", body.Grammar, requestID(req)).WriteResponse(w)
}
