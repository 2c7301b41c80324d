package mapper

import (
	"encoding/json"

	"ai-taskbot-be/internal/dto"
	"ai-taskbot-be/internal/entity"
	"ai-taskbot-be/internal/model"
	"ai-taskbot-be/pkg/ai/intent"

	"gorm.io/datatypes"
)

type ParseLogMapper struct{}

func NewParseLogMapper() *ParseLogMapper {
	return &ParseLogMapper{}
}

func (m *ParseLogMapper) ToEntity(p *model.ParseLog) *entity.ParseLog {
	if p == nil {
		return nil
	}

	var in *intent.Intent
	if len(p.Intent) > 0 {
		in = &intent.Intent{}
		if err := json.Unmarshal(p.Intent, in); err != nil {
			in = nil
		}
	}

	return &entity.ParseLog{
		Id:         p.Id,
		UserId:     p.UserId,
		TextHash:   p.TextHash,
		InputChars: p.InputChars,
		Chunks:     p.Chunks,
		Action:     p.Action,
		Source:     p.Source,
		Degraded:   p.Degraded,
		ElapsedMs:  p.ElapsedMs,
		Intent:     in,
		CreatedAt:  p.CreatedAt,
	}
}

func (m *ParseLogMapper) ToModel(p *entity.ParseLog) *model.ParseLog {
	if p == nil {
		return nil
	}

	var raw datatypes.JSON
	if p.Intent != nil {
		if b, err := json.Marshal(p.Intent); err == nil {
			raw = datatypes.JSON(b)
		}
	}

	return &model.ParseLog{
		Id:         p.Id,
		UserId:     p.UserId,
		TextHash:   p.TextHash,
		InputChars: p.InputChars,
		Chunks:     p.Chunks,
		Action:     p.Action,
		Source:     p.Source,
		Degraded:   p.Degraded,
		ElapsedMs:  p.ElapsedMs,
		Intent:     raw,
		CreatedAt:  p.CreatedAt,
	}
}

func (m *ParseLogMapper) ToEntities(logs []*model.ParseLog) []*entity.ParseLog {
	entities := make([]*entity.ParseLog, len(logs))
	for i, l := range logs {
		entities[i] = m.ToEntity(l)
	}
	return entities
}

// FromMessage builds the entity stored for a published parse-log message.
func (m *ParseLogMapper) FromMessage(msg *dto.PublishParseLogMessage) *entity.ParseLog {
	if msg == nil {
		return nil
	}
	log := &entity.ParseLog{
		Id:         msg.Id,
		UserId:     msg.UserId,
		TextHash:   msg.TextHash,
		InputChars: msg.InputChars,
		Chunks:     msg.Chunks,
		Source:     msg.Source,
		ElapsedMs:  msg.ElapsedMs,
		Intent:     msg.Intent,
		CreatedAt:  msg.CreatedAt,
		Action:     string(intent.ActionUnknown),
	}
	if msg.Intent != nil {
		log.Action = string(msg.Intent.Action)
		log.Degraded = msg.Intent.Degraded
	}
	return log
}

func (m *ParseLogMapper) ToResponse(p *entity.ParseLog) *dto.ParseLogResponse {
	if p == nil {
		return nil
	}
	return &dto.ParseLogResponse{
		Id:         p.Id,
		UserId:     p.UserId,
		Action:     p.Action,
		Source:     p.Source,
		Chunks:     p.Chunks,
		Degraded:   p.Degraded,
		InputChars: p.InputChars,
		ElapsedMs:  p.ElapsedMs,
		Intent:     p.Intent,
		CreatedAt:  p.CreatedAt,
	}
}

func (m *ParseLogMapper) ToResponses(logs []*entity.ParseLog) []*dto.ParseLogResponse {
	res := make([]*dto.ParseLogResponse, len(logs))
	for i, l := range logs {
		res[i] = m.ToResponse(l)
	}
	return res
}
