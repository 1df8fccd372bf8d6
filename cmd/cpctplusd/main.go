/*
Cpctplusd starts a cpctplus recovery server and begins listening for new
connections.

Usage:

	cpctplusd [flags]
	cpctplusd [flags] -l [[ADDRESS]:PORT]

Once started, the server listens for HTTP requests and responds to them
using the REST protocol documented under /api/v1. By default it listens on
localhost:8080; this can be changed with the --listen/-l flag (or its
environment variable).

If a JWT token secret is not given, one is generated and seeded from
crypto/rand, meaning all tokens issued become invalid as soon as the server
shuts down; this is fine for testing but must be given explicitly in
production.

The flags are:

	-v, --version
		Give the current version of cpctplusd and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. Defaults to the value of CPCTPLUSD_LISTEN_ADDRESS, or
		localhost:8080 if that is unset.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWTs. Defaults to the value of
		CPCTPLUSD_TOKEN_SECRET, or a randomly generated secret if unset.

	-t, --operator-token TOKEN
		The operator credential clients must present at /api/v1/token to
		receive a JWT. Defaults to CPCTPLUSD_OPERATOR_TOKEN; if neither is
		given, one is generated and printed to stderr at startup.

	-c, --config FILE
		Load search tuning from the given TOML file. If not given, built-in
		defaults are used.

	--cache PATH
		Use a SQLite FIRST/FOLLOW cache at the given path instead of
		recomputing analysis tables on every startup.
*/
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dekarrin/cpctplus/api"
	"github.com/dekarrin/cpctplus/config"
	"github.com/dekarrin/cpctplus/exprgrammar"
	"github.com/dekarrin/cpctplus/grammar"
	"github.com/dekarrin/cpctplus/internal/version"
	"github.com/dekarrin/cpctplus/store"
	"github.com/dekarrin/rosed"
	"github.com/spf13/pflag"
)

const (
	EnvListen   = "CPCTPLUSD_LISTEN_ADDRESS"
	EnvSecret   = "CPCTPLUSD_TOKEN_SECRET"
	EnvOperator = "CPCTPLUSD_OPERATOR_TOKEN"
)

var (
	flagVersion  = pflag.BoolP("version", "v", false, "Give the current version of cpctplusd and then exit.")
	flagListen   = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret   = pflag.StringP("secret", "s", "", "Use the given secret for JWT signing.")
	flagOperator = pflag.StringP("operator-token", "t", "", "The operator credential required at /api/v1/token.")
	flagConfig   = pflag.StringP("config", "c", "", "Load search tuning from the given TOML file.")
	flagCache    = pflag.String("cache", "", "Use a SQLite FIRST/FOLLOW cache at the given path.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("cpctplusd (cpctplus v%s)\n", version.Current)
		return
	}

	addr, port, err := resolveListenAddr()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	secret := resolveSecret()

	operatorTok := os.Getenv(EnvOperator)
	if pflag.Lookup("operator-token").Changed {
		operatorTok = *flagOperator
	}
	if operatorTok == "" {
		operatorTok = randomToken()
		log.Printf("WARN  no operator token given; generated one for this run: %s", operatorTok)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(operatorTok), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("FATAL could not hash operator token: %s", err)
	}

	cfg := config.Config{}.FillDefaults()
	if *flagConfig != "" {
		loaded, err := config.Load(*flagConfig)
		if err != nil {
			log.Fatalf("FATAL could not load config: %s", err)
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("FATAL invalid config: %s", err)
	}

	g, table := exprgrammar.Build()
	if *flagCache != "" {
		warmCache(g, *flagCache)
	}

	a := api.API{
		Demos: map[string]api.Demo{
			"expr": {
				Grammar: g,
				Table:   table,
				TokenByName: map[string]grammar.TokenIdx{
					"N": exprgrammar.N, "+": exprgrammar.Plus, "(": exprgrammar.LPar, ")": exprgrammar.RPar,
				},
			},
		},
		Config:            cfg,
		Secret:            secret,
		OperatorTokenHash: hash,
	}

	log.Printf("INFO  Starting cpctplusd %s on %s...", version.Current, net.JoinHostPort(addr, strconv.Itoa(port)))
	if err := http.ListenAndServe(net.JoinHostPort(addr, strconv.Itoa(port)), a.Router()); err != nil {
		log.Fatalf("FATAL server exited: %s", err)
	}
}

func warmCache(g *grammar.Grammar, path string) {
	s, err := store.Open(path)
	if err != nil {
		log.Printf("WARN  could not open cache %s: %s", path, err)
		return
	}
	defer s.Close()

	fp := store.Fingerprint(g)
	if _, _, ok, err := s.Load(fp); err != nil {
		log.Printf("WARN  could not read cache: %s", err)
	} else if ok {
		log.Printf("INFO  FIRST/FOLLOW cache hit for fingerprint %s", fp)
		return
	}

	first := grammar.ComputeFirst(g)
	follow := grammar.ComputeFollow(g, first)
	if err := s.Save(fp, first, follow); err != nil {
		log.Printf("WARN  could not write cache: %s", err)
		return
	}
	log.Printf("INFO  FIRST/FOLLOW cache warmed for fingerprint %s\n%s", fp, firstFollowTable(g, first, follow))
}

// firstFollowTable renders a FIRST/FOLLOW table for every rule in g as a
// rosed bordered table.
func firstFollowTable(g *grammar.Grammar, first *grammar.FirstTable, follow *grammar.FollowTable) string {
	data := [][]string{{"Rule", "FIRST", "FOLLOW"}}
	for r := grammar.RuleIdx(0); int(r) < g.NumRules(); r++ {
		data = append(data, []string{
			g.RuleName(r),
			tokenSetString(g, first.First(r), first.IsEpsilon(r)),
			tokenSetString(g, follow.Follow(r), false),
		})
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 80, rosed.Options{
			TableBorders: true,
		}).
		String()
}

func tokenSetString(g *grammar.Grammar, set grammar.TokenSet, epsilon bool) string {
	names := make([]string, 0, set.Len()+1)
	for _, t := range set.Elements() {
		names = append(names, g.TokenName(t))
	}
	if epsilon {
		names = append(names, "ε")
	}
	if len(names) == 0 {
		return "-"
	}
	out := names[0]
	for _, n := range names[1:] {
		out += ", " + n
	}
	return out
}

func resolveListenAddr() (string, int, error) {
	listenAddr := os.Getenv(EnvListen)
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr == "" {
		return "localhost", 8080, nil
	}

	parts := strings.SplitN(listenAddr, ":", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("listen address is not in ADDRESS:PORT or :PORT format")
	}
	port, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, fmt.Errorf("%q is not a valid port number", parts[1])
	}
	return parts[0], port, nil
}

func resolveSecret() []byte {
	secStr := os.Getenv(EnvSecret)
	if pflag.Lookup("secret").Changed {
		secStr = *flagSecret
	}
	if secStr != "" {
		return []byte(secStr)
	}

	secret := make([]byte, 64)
	if _, err := rand.Read(secret); err != nil {
		log.Fatalf("FATAL could not generate token secret: %s", err)
	}
	log.Printf("WARN  using generated token secret; all tokens issued will become invalid at shutdown")
	return secret
}

func randomToken() string {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		log.Fatalf("FATAL could not generate operator token: %s", err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
