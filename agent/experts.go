package agent

import (
	"github.com/etnz/stockbook"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and keep context of your previous questions.

			The user keeps a personal book of limit orders, a watchlist and take profit targets.
			They assume that you know about them: ask the Clerk first to understand what they refer to.

			Devise a plan of questions to ask to each expert and come up with the best response to the user's request.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader returns an expert grounded on Google Search.
func NewTrader() *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader,
		very well aware of the financial products, the markets and the latest news about companies.
		Ask the Trader whenever you need recent or grounding information, like a current price.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in trading, you can search and find about anything related to
			companies, markets, and funds. You leverage Google Search to ground your assertions.
			You can get the latest news too, and you know how to relate them to the user's request.
			`}}},
		},
	}
}

// NewClerk returns the expert reading the user's book.
func NewClerk(book *stockbook.Book, currency string) *Expert {
	lib := Tools(book, currency)
	return &Expert{
		Name: "Clerk",
		Description: `This is the Clerk. They keep the user's book: the limit orders the user intends to place,
		the tickers they watch, and their take profit targets.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are the clerk in charge of the user's book. Nothing in the book is ever executed on a market,
			it is a record of the user's intentions.
			Use the available Tools to read
			  - the limit orders
			  - the watchlist
			  - the take profit targets
			and the documentation of the stk tool the user works with.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}
