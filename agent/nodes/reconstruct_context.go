package orchestratornode

import (
	"context"
	"fmt"

	contractx "taskchat/agent/contract"
)

// ReconstructContext loads the conversation history and task snapshot.
// A not-found here is terminal for the turn; it is a caller error, not a
// transient condition, so there is no retry.
func ReconstructContext(
	ctx context.Context,
	in *GraphState,
	source contractx.ContextSource,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	cc, err := source.Reconstruct(ctx, in.ConversationID, in.OwnerID)
	if err != nil {
		return nil, err
	}

	in.Context = cc
	return in, nil
}
