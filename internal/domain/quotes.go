package domain

import "math/rand/v2"

// Quote is a motivational line shown in focus mode.
type Quote struct {
	Text   string
	Author string
}

// Quotes is the built-in collection.
var Quotes = []Quote{
	{"The secret of getting ahead is getting started.", "Mark Twain"},
	{"Focus on being productive instead of busy.", "Tim Ferriss"},
	{"It's not that I'm so smart, it's just that I stay with problems longer.", "Albert Einstein"},
	{"Deep work is the ability to focus without distraction on a cognitively demanding task.", "Cal Newport"},
	{"The successful warrior is the average man, with laser-like focus.", "Bruce Lee"},
	{"Concentrate all your thoughts upon the work at hand.", "Alexander Graham Bell"},
	{"Do the hard jobs first. The easy jobs will take care of themselves.", "Dale Carnegie"},
	{"You don't have to be great to start, but you have to start to be great.", "Zig Ziglar"},
	{"Action is the foundational key to all success.", "Pablo Picasso"},
	{"The only way to do great work is to love what you do.", "Steve Jobs"},
	{"Discipline is choosing between what you want now and what you want most.", "Abraham Lincoln"},
	{"Small daily improvements over time lead to stunning results.", "Robin Sharma"},
	{"Your future is created by what you do today, not tomorrow.", "Robert Kiyosaki"},
	{"Don't count the days, make the days count.", "Muhammad Ali"},
	{"The way to get started is to quit talking and begin doing.", "Walt Disney"},
	{"What we fear doing most is usually what we most need to do.", "Tim Ferriss"},
	{"Starve your distractions, feed your focus.", "Unknown"},
	{"You will never always be motivated, so you must learn to be disciplined.", "Unknown"},
	{"Work hard in silence, let your success be your noise.", "Frank Ocean"},
	{"It always seems impossible until it's done.", "Nelson Mandela"},
}

// QuotePicker draws random quotes without repeating the previous one.
type QuotePicker struct {
	quotes []Quote
	last   int
	intn   func(int) int
}

// NewQuotePicker creates a picker over the built-in quotes.
func NewQuotePicker() *QuotePicker {
	return &QuotePicker{quotes: Quotes, last: -1, intn: rand.IntN}
}

// Next returns a random quote different from the last one returned.
func (p *QuotePicker) Next() Quote {
	if len(p.quotes) == 1 {
		return p.quotes[0]
	}
	idx := p.intn(len(p.quotes))
	for idx == p.last {
		idx = p.intn(len(p.quotes))
	}
	p.last = idx
	return p.quotes[idx]
}
