package adaptor

import (
	"errors"
	"net/http"
	"strings"

	"ticket-reservation/internal/data/repository"
	"ticket-reservation/pkg/utils"

	"go.uber.org/zap"
)

// writeServiceError maps engine errors onto the HTTP surface. Recoverable
// races become 409/410 so the UI can tell the buyer to pick again;
// corruption is a 500 with incident logging and no detail exposed.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, repository.ErrInventoryCorruption):
		log.Error(operation+" failed - inventory corruption",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")

	case errors.Is(err, repository.ErrNotFound):
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, repository.ErrSeatUnavailable):
		log.Info(operation+" declined - seat unavailable",
			zap.String("operation", operation))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, repository.ErrReservationExpired):
		log.Info(operation+" declined - reservation expired",
			zap.String("operation", operation))
		utils.ResponseGone(w, err.Error())

	case errors.Is(err, repository.ErrReservationNotActive):
		log.Info(operation+" declined - reservation not active",
			zap.String("operation", operation))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, repository.ErrPaymentDeclined):
		log.Info(operation+" declined - payment not captured",
			zap.String("operation", operation))
		utils.ResponseJSON(w, http.StatusPaymentRequired, false, err.Error(), nil, nil)

	case strings.Contains(err.Error(), "validation failed"),
		strings.Contains(err.Error(), "invalid"):
		log.Warn(operation+" failed - bad input",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, err.Error(), nil)

	default:
		log.Error(operation+" failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
