package platform

import (
	"regexp"
	"time"
)

// Twitter/X selectors are isolated here because the platform reshuffles its
// data-testid attributes frequently. Update these when scraping breaks.
func twitterConfig() *Config {
	return &Config{
		Name:               "twitter",
		LoginURL:           "https://x.com/i/flow/login",
		LandingURL:         "https://x.com/home",
		profileURLTemplate: "https://x.com/%s",

		Selectors: Selectors{
			PostContainer: SelectorChain{
				`article[data-testid="tweet"]`,
				`article[role="article"]`,
			},
			Text: SelectorChain{
				`[data-testid="tweetText"]`,
				`div[lang]`,
			},
			Author: SelectorChain{
				`[data-testid="User-Name"] a`,
				`[data-testid="User-Name"]`,
			},
			Date: SelectorChain{
				`time`,
				`a time`,
			},
			Stats: SelectorChain{
				`[role="group"]`,
				`[data-testid="reply"], [data-testid="retweet"], [data-testid="like"]`,
			},
			Link: SelectorChain{
				`a[href*="/status/"]`,
			},
		},

		PopupSelectors: []string{
			`[data-testid="sheetDialog"] [data-testid="app-bar-close"]`,
			`div[role="button"][aria-label="Close"]`,
		},

		UsernameField: `input[autocomplete="username"]`,
		PasswordField: `input[name="password"]`,
		SubmitButton:  `[data-testid="LoginForm_Login_Button"]`,

		LoggedInMarker:  `[data-testid="SideNav_NewTweet_Button"]`,
		TwoFactorMarker: `input[data-testid="ocfEnterTextTextInput"]`,
		ChallengePathHints: []string{
			"/account/access",
			"/i/flow/login_verification",
		},

		StatPatterns: map[string][]*regexp.Regexp{
			"likes": mustCompile(
				`(?i)([\d.,]+[KkMm]?)\s*Likes?\b`,
				`(?i)aria-label="[^"]*?([\d.,]+[KkMm]?)\s*Likes?`,
			),
			"comments": mustCompile(
				`(?i)([\d.,]+[KkMm]?)\s*Repl(?:y|ies)\b`,
			),
			"shares": mustCompile(
				`(?i)([\d.,]+[KkMm]?)\s*(?:Retweets?|Reposts?)\b`,
			),
			"views": mustCompile(
				`(?i)([\d.,]+[KkMm]?)\s*Views?\b`,
			),
		},

		Timing: Timing{
			ScrollDelay:       2 * time.Second,
			MaxScrolls:        12,
			PostLimit:         60,
			LoginTimeout:      20 * time.Second,
			NavigationTimeout: 45 * time.Second,
		},
	}
}
