package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/model"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/search"
)

const searchHelp = "Type a city name. :N picks result N, :r searches again, :c clears, :q quits."

// runSearch drives a search session from input lines. Each line replaces the
// query. It returns the saved candidate, or nil when the input ended or the
// user quit without picking one.
func runSearch(
	ctx context.Context,
	in io.Reader,
	out io.Writer,
	session *search.Session,
	initial string,
	save func(model.CityCandidate) error,
	interactive bool,
) (*model.CityCandidate, error) {
	var mu sync.Mutex
	say := func(s string) {
		mu.Lock()
		fmt.Fprintln(out, s)
		mu.Unlock()
	}

	selected := make(chan model.CityCandidate, 1)
	session.OnChange(func(st search.State) {
		if s := formatSearchState(st); s != "" {
			say(s)
		}
	})
	session.OnSelect(func(c model.CityCandidate) {
		select {
		case selected <- c:
		default:
		}
	})

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	if interactive {
		say(searchHelp)
	}
	if initial != "" {
		session.SetQuery(initial)
	}

	for {
		var line string
		select {
		case <-ctx.Done():
			return nil, nil
		case l, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return nil, err
				default:
					return nil, nil
				}
			}
			line = l
		}

		cmd := strings.TrimSpace(line)
		switch {
		case cmd == ":q":
			return nil, nil
		case cmd == ":c":
			session.Clear()
			say("Cleared")
		case cmd == ":r":
			if !session.Refetch() {
				say("Query too short")
			}
		case strings.HasPrefix(cmd, ":"):
			n, err := strconv.Atoi(cmd[1:])
			if err != nil {
				say("Unknown command " + cmd + ". " + searchHelp)
				continue
			}
			candidates := session.State().Candidates
			if n < 1 || n > len(candidates) {
				say(fmt.Sprintf("No result %d", n))
				continue
			}

			session.Select(candidates[n-1])
			var cand model.CityCandidate
			select {
			case cand = <-selected:
			case <-ctx.Done():
				return nil, nil
			}
			if err := save(cand); err != nil {
				return nil, fmt.Errorf("save %s: %w", cand.Label(), err)
			}
			say("Saved " + cand.Label())
			return &cand, nil
		default:
			session.SetQuery(line)
		}
	}
}
