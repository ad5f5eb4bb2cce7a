package engine

import (
	"gridboard-server/pkg/api"
	"gridboard-server/pkg/board"
)

// Robot - один исследователь поля. Клоны появляются при развилках.
type Robot struct {
	ID       int
	Pos      board.GridPoint
	HasKey   bool
	Energy   int
	Alive    bool
	NextTick int
	// ParentID - кто породил клона, 0 у первого робота
	ParentID int
}

// View переводит робота в DTO
func (r Robot) View() api.RobotView {
	return api.RobotView{
		ID:     r.ID,
		X:      r.Pos.X,
		Y:      r.Pos.Y,
		HasKey: r.HasKey,
		Energy: r.Energy,
		Alive:  r.Alive,
	}
}

// visit - посещенная клетка с учетом ключа: подобрав ключ, робот может пройти поле заново
type visit struct {
	Point  board.GridPoint
	HasKey bool
}
