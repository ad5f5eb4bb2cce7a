package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gridboard-server/internal/storage"
	"gridboard-server/pkg/utils"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "random":
		fmt.Println(utils.RandomSeed())
	case "level":
		if len(os.Args) < 4 {
			fmt.Println("Usage: seedutil level <master_seed> <level>")
			return
		}
		master, err := strconv.ParseUint(os.Args[2], 10, 64)
		if err != nil {
			fmt.Printf("Invalid master seed: %v\n", err)
			return
		}
		level, err := strconv.Atoi(os.Args[3])
		if err != nil || level < 1 {
			fmt.Printf("Invalid level: %q\n", os.Args[3])
			return
		}
		fmt.Println(utils.LevelSeed(master, level))
	case "string":
		if len(os.Args) < 3 {
			fmt.Println("Usage: seedutil string <text>")
			return
		}
		fmt.Println(utils.StringToSeed(os.Args[2]))
	case "record":
		if len(os.Args) < 3 {
			fmt.Println("Usage: seedutil record <path.gblr>")
			return
		}
		rec, err := storage.NewRecordService("").Load(os.Args[2])
		if err != nil {
			fmt.Printf("Invalid record: %v\n", err)
			return
		}
		printRecord(rec)
	default:
		printHelp()
	}
}

func printRecord(rec *storage.LevelRecord) {
	fmt.Printf("level:    %d\n", rec.Level)
	fmt.Printf("seed:     %d\n", rec.Seed)
	fmt.Printf("created:  %s\n", time.Unix(rec.Timestamp, 0).UTC().Format(time.RFC3339))
	fmt.Printf("size:     %dx%d\n", rec.Columns, rec.Rows)
	fmt.Printf("walls:    %s\n", rec.WallRange)
	fmt.Printf("items:    %s\n", rec.ItemRange)
	fmt.Printf("enemies:  %s\n", rec.EnemyRange)
	fmt.Printf("layout:   %s (loops %.2f)\n", rec.Layout, rec.LoopChance)
	fmt.Printf("attempts: %d\n", rec.Attempts)
	c := rec.Counts
	fmt.Printf("placed:   walls=%d food=%d enemies=%d keys=%d exits=%d\n", c.Walls, c.Food, c.Enemies, c.Keys, c.Exits)
}

func printHelp() {
	fmt.Println(`Seed Utility - сиды уровней и записи .gblr
Commands:
  random                 - новый случайный мастер-сид
  level <master> <n>     - сид уровня n для мастер-сида
  string <text>          - сид из строки (FNV-1a)
  record <path>          - вывести запись уровня`)
}
