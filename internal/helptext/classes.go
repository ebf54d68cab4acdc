package helptext

import "strconv"

// classNames labels the attack/armour class ids of the stat tables.
var classNames = map[int]string{
	0:  "Unused",
	1:  "Infantry",
	2:  "Turtle Ships",
	3:  "Base Pierce",
	4:  "Base Melee",
	5:  "War Elephants",
	8:  "Cavalry",
	11: "All Buildings (except Port)",
	13: "Stone Defense",
	14: "FE Predator Animals",
	15: "Archers",
	16: "Ships & Camels & Saboteurs",
	17: "Rams",
	18: "Trees",
	19: "Unique Units (except Turtle Ship)",
	20: "Siege Weapons",
	21: "Standard Buildings",
	22: "Walls & Gates",
	23: "Gunpowder Units",
	24: "Boars",
	25: "Monks",
	26: "Castle",
	27: "Spearmen",
	28: "Cavalry Archers",
	29: "Eagle Warriors",
	30: "Camels",
	31: "Leitis",
	32: "Condottiero",
	33: "Organ Gun Bullet",
	34: "Fishing Ships",
	35: "Mamelukes",
	36: "Heroes and King",
	37: "Hussite Wagons",
	38: "Skirmishers",
	39: "Cavalry Resistance",
}

// ClassName returns the display label of an armour class id.
func ClassName(id int) string {
	if name, ok := classNames[id]; ok {
		return name
	}
	return "Class " + strconv.Itoa(id)
}
