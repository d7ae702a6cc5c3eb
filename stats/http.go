package stats

import (
	"net/http"
	_ "net/http/pprof"

	"github.com/omniscale/osmcsv/logging"
)

var log = logging.NewLogger("stats")

// StartHttpPProf serves the net/http/pprof handlers on bind.
func StartHttpPProf(bind string) {
	go func() {
		log.Printf("pprof server on %s", bind)
		log.Errorf("pprof server: %s", http.ListenAndServe(bind, nil))
	}()
}
