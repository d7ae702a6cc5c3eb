// Package stats counts processed elements and reports the progress.
package stats

import (
	"fmt"
	"time"

	"github.com/omniscale/osmcsv/logging"
)

// Counts are the totals of a run.
type Counts struct {
	Nodes     int64
	Ways      int64
	Tags      int64
	Refs      int64
	Discarded int64
	Skipped   int64
}

func (c Counts) String() string {
	return fmt.Sprintf("Nodes: %d Ways: %d Tags: %d Refs: %d Discarded tags: %d Skipped elements: %d",
		c.Nodes, c.Ways, c.Tags, c.Refs, c.Discarded, c.Skipped)
}

type counter struct {
	Counts
	lastReport time.Time
	lastNodes  int64
	lastWays   int64
}

type Statistics struct {
	nodes     chan int
	ways      chan int
	tags      chan int
	refs      chan int
	discarded chan int
	skipped   chan int
	stop      chan chan Counts
}

func (s *Statistics) AddNodes(n int)     { s.nodes <- n }
func (s *Statistics) AddWays(n int)      { s.ways <- n }
func (s *Statistics) AddTags(n int)      { s.tags <- n }
func (s *Statistics) AddRefs(n int)      { s.refs <- n }
func (s *Statistics) AddDiscarded(n int) { s.discarded <- n }
func (s *Statistics) AddSkipped(n int)   { s.skipped <- n }

// Stop stops the reporter, clears the progress line and returns the
// final counts. The Statistics must not be used after Stop.
func (s *Statistics) Stop() Counts {
	result := make(chan Counts)
	s.stop <- result
	return <-result
}

// StatsReporter starts a reporter that prints the current counts every
// interval as progress line. A zero interval defaults to one second.
func StatsReporter(interval time.Duration) *Statistics {
	if interval <= 0 {
		interval = time.Second
	}
	s := &Statistics{
		nodes:     make(chan int),
		ways:      make(chan int),
		tags:      make(chan int),
		refs:      make(chan int),
		discarded: make(chan int),
		skipped:   make(chan int),
		stop:      make(chan chan Counts),
	}

	go func() {
		c := counter{lastReport: time.Now()}
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for {
			select {
			case n := <-s.nodes:
				c.Nodes += int64(n)
			case n := <-s.ways:
				c.Ways += int64(n)
			case n := <-s.tags:
				c.Tags += int64(n)
			case n := <-s.refs:
				c.Refs += int64(n)
			case n := <-s.discarded:
				c.Discarded += int64(n)
			case n := <-s.skipped:
				c.Skipped += int64(n)
			case <-tick.C:
				logging.Progress(c.progress())
			case result := <-s.stop:
				logging.Progress("")
				result <- c.Counts
				return
			}
		}
	}()
	return s
}

func (c *counter) progress() string {
	dur := time.Since(c.lastReport)
	nodesPS := int64(float64(c.Nodes-c.lastNodes)/dur.Seconds()/100) * 100
	waysPS := int64(float64(c.Ways-c.lastWays)/dur.Seconds()/100) * 100

	msg := fmt.Sprintf("Nodes: %7d/s (%9d) Ways: %7d/s (%8d) Tags: %10d",
		nodesPS, c.Nodes, waysPS, c.Ways, c.Tags)

	c.lastNodes = c.Nodes
	c.lastWays = c.Ways
	c.lastReport = time.Now()
	return msg
}
