package riot

import (
	"context"
	"fmt"
	"time"
)

// ResolveNames maps each puuid to a display name, calling the account
// provider once per id with the configured inter-call delay between
// requests. Ids that cannot be resolved get a placeholder name; the
// loop never fails as a whole.
func (c *Client) ResolveNames(ctx context.Context, regional string, puuids []string) map[string]string {
	names := make(map[string]string, len(puuids))
	for i, puuid := range puuids {
		if i > 0 && c.resolveDelay > 0 {
			select {
			case <-ctx.Done():
				for _, rest := range puuids[i:] {
					names[rest] = placeholderName(rest)
				}
				return names
			case <-time.After(c.resolveDelay):
			}
		}

		acct, err := c.AccountByPUUID(ctx, regional, puuid)
		if err != nil {
			names[puuid] = placeholderName(puuid)
			continue
		}
		if acct.TagLine == "" {
			names[puuid] = acct.GameName
		} else {
			names[puuid] = fmt.Sprintf("%s#%s", acct.GameName, acct.TagLine)
		}
	}
	return names
}

func placeholderName(puuid string) string {
	short := puuid
	if len(short) > 8 {
		short = short[:8]
	}
	return "Player " + short
}
