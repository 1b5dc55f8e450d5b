package usecases

import (
	"math"
	"strings"

	"github.com/SourceCoDeals/nexus-intelligence-api/internal/domain/entities"
)

// Funnel stage names, in order.
const (
	StageVisitors     = "Visitors"
	StageMarketplace  = "Marketplace"
	StageRegistered   = "Registered"
	StageNdaSigned    = "NDA Signed"
	StageFeeAgreement = "Fee Agreement"
	StageConnected    = "Connected"
)

const marketplacePathPrefix = "/marketplace"

// BuildFunnel computes the fixed acquisition funnel and the overall
// conversion from first to last stage. Each stage's drop-off is relative
// to the immediately preceding stage; a stage after an empty one reports
// 0% rather than dividing by zero.
func BuildFunnel(data *reportData) ([]entities.FunnelStage, float64) {
	visitors := make(map[string]struct{})
	var marketplaceSessions int64
	var registeredSessions int64

	for i := range data.sessions {
		session := &data.sessions[i]
		if key := session.VisitorKey(); key != "" {
			visitors[key] = struct{}{}
		}
		if session.UserID != "" {
			registeredSessions++
		}
		for _, view := range data.viewsBySession[session.ID] {
			if view.Path == "/" || strings.HasPrefix(view.Path, marketplacePathPrefix) {
				marketplaceSessions++
				break
			}
		}
	}

	var ndaSigned, feeSigned, connected int64
	for _, request := range data.connections {
		if request.NdaSignedAt != nil {
			ndaSigned++
		}
		if request.FeeAgreementSignedAt != nil {
			feeSigned++
		}
		if request.Status == entities.ConnectionStatusConnected {
			connected++
		}
	}

	counts := []int64{
		int64(len(visitors)),
		marketplaceSessions,
		registeredSessions,
		ndaSigned,
		feeSigned,
		connected,
	}
	names := []string{
		StageVisitors,
		StageMarketplace,
		StageRegistered,
		StageNdaSigned,
		StageFeeAgreement,
		StageConnected,
	}

	stages := make([]entities.FunnelStage, len(counts))
	for i, count := range counts {
		stage := entities.FunnelStage{Name: names[i], Count: count}
		if i > 0 && counts[i-1] > 0 {
			dropped := float64(counts[i-1]-count) / float64(counts[i-1]) * 100
			stage.DropOff = math.Round(dropped*100) / 100
		}
		stages[i] = stage
	}

	var conversion float64
	if counts[0] > 0 {
		conversion = math.Round(float64(counts[len(counts)-1])/float64(counts[0])*10000) / 100
	}
	return stages, conversion
}
