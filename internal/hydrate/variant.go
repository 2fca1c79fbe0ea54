package hydrate

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"strings"

	"samforge/internal/content"
)

// SelectTemplate picks a template variant deterministically.
//
// Global documents (no entity id) cycle through the variants by document
// number so every variant gets used. Engagement notes route by meeting type
// when a matching template exists. Entity-linked documents prefer templates
// whose sector tags match the entity, then hash entity:docType:seed (MD5,
// stable across processes) into the candidate list.
func SelectTemplate(templates []*content.Template, c Context, seed int64) *content.Template {
	if len(templates) == 1 {
		return templates[0]
	}

	docType, _ := c["_doc_type"].(string)
	docNum, _ := c["_doc_num"].(int)

	entityID := c.EntityID()
	if entityID == nil {
		return templates[docNum%len(templates)]
	}

	if meetingType, _ := c["MEETING_TYPE"].(string); meetingType != "" && docType == "engagement_notes" {
		key := strings.ReplaceAll(strings.ToLower(meetingType), " ", "_")
		for _, t := range templates {
			if strings.ToLower(t.Metadata.MeetingType) == key {
				return t
			}
		}
	}

	sector, _ := c["SECTOR"].(string)
	var candidates []*content.Template
	for _, t := range templates {
		for _, tag := range t.Metadata.SectorTags {
			if tag == sector {
				candidates = append(candidates, t)
				break
			}
		}
	}
	if len(candidates) == 0 {
		candidates = templates
	}

	sum := md5.Sum([]byte(fmt.Sprintf("%v:%s:%d", entityID, docType, seed)))
	idx := binary.BigEndian.Uint64(sum[:8]) % uint64(len(candidates))
	return candidates[idx]
}
