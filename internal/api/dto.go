package api

import (
	"time"

	"github.com/eugenenazirov/container-packing/internal/packing"
	"github.com/eugenenazirov/container-packing/internal/service"
	"github.com/eugenenazirov/container-packing/internal/storage"
)

type containerDTO struct {
	ID               int     `json:"id"`
	Name             string  `json:"name,omitempty"`
	Length           float64 `json:"length"`
	Width            float64 `json:"width"`
	Height           float64 `json:"height"`
	Weight           float64 `json:"weight"`
	MaxAllowedWeight float64 `json:"maxAllowedWeight"`
}

func (c containerDTO) toContainer() packing.Container {
	return packing.Container{
		ID:               c.ID,
		Length:           c.Length,
		Width:            c.Width,
		Height:           c.Height,
		Weight:           c.Weight,
		MaxAllowedWeight: c.MaxAllowedWeight,
	}
}

func (c containerDTO) toPreset() storage.Preset {
	return storage.Preset{
		ID:               c.ID,
		Name:             c.Name,
		Length:           c.Length,
		Width:            c.Width,
		Height:           c.Height,
		Weight:           c.Weight,
		MaxAllowedWeight: c.MaxAllowedWeight,
	}
}

func presetsToDTO(presets []storage.Preset) []containerDTO {
	out := make([]containerDTO, 0, len(presets))
	for _, p := range presets {
		out = append(out, containerDTO(p))
	}
	return out
}

type itemRequestDTO struct {
	ID       int     `json:"id"`
	Dim1     float64 `json:"dim1"`
	Dim2     float64 `json:"dim2"`
	Dim3     float64 `json:"dim3"`
	Weight   float64 `json:"weight"`
	Quantity int     `json:"quantity"`
}

func (i itemRequestDTO) toItem() packing.Item {
	return packing.Item{
		ID:       i.ID,
		Dim1:     i.Dim1,
		Dim2:     i.Dim2,
		Dim3:     i.Dim3,
		Weight:   i.Weight,
		Quantity: i.Quantity,
	}
}

type itemDTO struct {
	ID       int     `json:"id"`
	IsPacked bool    `json:"isPacked"`
	Dim1     float64 `json:"dim1"`
	Dim2     float64 `json:"dim2"`
	Dim3     float64 `json:"dim3"`
	Weight   float64 `json:"weight"`
	Quantity int     `json:"quantity"`
	Volume   float64 `json:"volume"`
	CoordX   float64 `json:"coordX"`
	CoordY   float64 `json:"coordY"`
	CoordZ   float64 `json:"coordZ"`
	PackDimX float64 `json:"packDimX"`
	PackDimY float64 `json:"packDimY"`
	PackDimZ float64 `json:"packDimZ"`
}

func itemsToDTO(items []packing.Item) []itemDTO {
	out := make([]itemDTO, 0, len(items))
	for _, i := range items {
		out = append(out, itemDTO{
			ID:       i.ID,
			IsPacked: i.IsPacked,
			Dim1:     i.Dim1,
			Dim2:     i.Dim2,
			Dim3:     i.Dim3,
			Weight:   i.Weight,
			Quantity: i.Quantity,
			Volume:   i.Volume(),
			CoordX:   i.CoordX,
			CoordY:   i.CoordY,
			CoordZ:   i.CoordZ,
			PackDimX: i.PackDimX,
			PackDimY: i.PackDimY,
			PackDimZ: i.PackDimZ,
		})
	}
	return out
}

type algorithmResultDTO struct {
	AlgorithmID                  int       `json:"algorithmId"`
	AlgorithmName                string    `json:"algorithmName"`
	IsCompletePack               bool      `json:"isCompletePack"`
	PackedItems                  []itemDTO `json:"packedItems"`
	UnpackedItems                []itemDTO `json:"unpackedItems"`
	PackTimeInMilliseconds       int64     `json:"packTimeInMilliseconds"`
	PercentContainerVolumePacked float64   `json:"percentContainerVolumePacked"`
	PercentItemVolumePacked      float64   `json:"percentItemVolumePacked"`
	PercentItemWeightPacked      float64   `json:"percentItemWeightPacked"`
}

type containerResultDTO struct {
	ContainerID             int                  `json:"containerId"`
	AlgorithmPackingResults []algorithmResultDTO `json:"algorithmPackingResults"`
}

func resultsToDTO(results []service.ContainerPackingResult) []containerResultDTO {
	out := make([]containerResultDTO, 0, len(results))
	for _, cr := range results {
		dto := containerResultDTO{
			ContainerID:             cr.ContainerID,
			AlgorithmPackingResults: make([]algorithmResultDTO, 0, len(cr.AlgorithmPackingResults)),
		}
		for _, ar := range cr.AlgorithmPackingResults {
			dto.AlgorithmPackingResults = append(dto.AlgorithmPackingResults, algorithmResultDTO{
				AlgorithmID:                  ar.AlgorithmID,
				AlgorithmName:                ar.AlgorithmName,
				IsCompletePack:               ar.IsCompletePack,
				PackedItems:                  itemsToDTO(ar.PackedItems),
				UnpackedItems:                itemsToDTO(ar.UnpackedItems),
				PackTimeInMilliseconds:       ar.PackTimeInMilliseconds,
				PercentContainerVolumePacked: ar.PercentContainerVolumePacked,
				PercentItemVolumePacked:      ar.PercentItemVolumePacked,
				PercentItemWeightPacked:      ar.PercentItemWeightPacked,
			})
		}
		out = append(out, dto)
	}
	return out
}

type packRequest struct {
	Containers       []containerDTO   `json:"containers"`
	ContainerIDs     []int            `json:"containerIds"`
	ItemsToPack      []itemRequestDTO `json:"itemsToPack"`
	AlgorithmTypeIDs []int            `json:"algorithmTypeIDs"`
}

type containersRequest struct {
	Containers []containerDTO `json:"containers"`
}

type containersResponse struct {
	Containers []containerDTO `json:"containers"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	Message    string         `json:"message,omitempty"`
}

type algorithmDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type algorithmsResponse struct {
	Algorithms []algorithmDTO `json:"algorithms"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}
