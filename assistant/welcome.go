package assistant

import "context"

const setAPIKeyOption = "Set API Key"

var cheerMessages = []string{
	"🎉 Keep up the great work!",
	"💧 Don't forget to drink some water!",
	"🧘‍♂️ Take a break and relax for a while!",
	"✨ You're doing amazing, keep going!",
	"🌱 Don't forget to stretch, it's good for you!",
	"💪 You got this, keep coding!",
}

// Welcome greets the user at startup. Without an API key it offers the key setup first.
func (a *Assistant) Welcome(ctx context.Context) error {
	if a.session.Snapshot().APIKey == "" {
		a.presence.Set(Attentive)
		choice, err := a.host.Confirm(ctx,
			"😺 Welcome to Friendly Code Assistant! Set up your API key to get started.",
			setAPIKeyOption)
		if err != nil {
			return err
		}
		if choice == setAPIKeyOption {
			if err := a.Dispatch(ctx, SetAPIKey{}); err != nil {
				return err
			}
		}
	}

	a.host.ShowInfo(cheerMessages[a.pick(len(cheerMessages))])
	return nil
}
