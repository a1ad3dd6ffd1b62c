package entity

import "time"

// ProductionStage etapa ordenada del ciclo de fabricación de una unidad.
type ProductionStage struct {
	Name             string
	ParentUnitUUID   string
	Number           int
	EmployeeName     string
	SessionStartTime *time.Time
	SessionEndTime   *time.Time
	VideoHashes      []string
	AdditionalInfo   map[string]string
	Completed        bool
	EndedPrematurely bool
	StageData        map[string]any
}

// MergeStageData incorpora datos capturados a la etapa (último en escribir gana).
func (s *ProductionStage) MergeStageData(data map[string]any) {
	if len(data) == 0 {
		return
	}
	if s.StageData == nil {
		s.StageData = make(map[string]any, len(data))
	}
	for k, v := range data {
		s.StageData[k] = v
	}
}
