package api

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/genomics-tools/bindex/internal/genomics"
)

// regionFromQuery builds the query region from the referenceId, start and
// end request parameters.  start and end are optional; an absent or zero
// end means "to the last possible read position".
func regionFromQuery(c *gin.Context) (genomics.Region, error) {
	reference := c.Query("referenceId")
	if reference == "" {
		return genomics.Region{}, errors.New("no referenceId specified")
	}
	id, err := strconv.ParseInt(reference, 10, 32)
	if err != nil {
		return genomics.Region{}, fmt.Errorf("parsing referenceId: %v", err)
	}
	region := genomics.Region{ReferenceID: int32(id)}

	if start := c.Query("start"); start != "" {
		v, err := strconv.ParseUint(start, 10, 32)
		if err != nil {
			return genomics.Region{}, fmt.Errorf("parsing start: %v", err)
		}
		region.Start = uint32(v)
	}
	if end := c.Query("end"); end != "" {
		v, err := strconv.ParseUint(end, 10, 32)
		if err != nil {
			return genomics.Region{}, fmt.Errorf("parsing end: %v", err)
		}
		region.End = uint32(v)
	}
	if region.End != 0 && region.End < region.Start {
		return genomics.Region{}, fmt.Errorf("end (%d) precedes start (%d)", region.End, region.Start)
	}
	return region, nil
}
