package httpx

import (
	"net/http"

	"github.com/idfuturestars/starguide/internal/ws"
	"github.com/idfuturestars/starguide/pkg/auth"
	"github.com/idfuturestars/starguide/pkg/metrics"
)

type BattlesAPI struct{ Hub *ws.Hub }

// Find synthesizes an opponent and opens a live battle session. Moves then
// flow over the websocket (battle_move / battle_update).
func (a *BattlesAPI) Find(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	b := a.Hub.Battles().Create(uid)
	metrics.BattlesStarted.Inc()

	writeJSON(w, map[string]any{
		"battleId": b.ID,
		"opponent": b.Opponent,
	})
}
