/*
Copyright © 2024 Ryan Painter paintersrp@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/viper"

	"github.com/Paintersrp/nnt/internal/config"
	"github.com/Paintersrp/nnt/internal/constants"
	"github.com/Paintersrp/nnt/internal/state"
	"github.com/Paintersrp/nnt/pkg/cmd/root"
)

func Execute() {
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.AutomaticEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f := state.NewFactory(root.NotebookOverride)
	rootCmd := root.NewCmdRoot(f)

	execErr := rootCmd.ExecuteContext(ctx)
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to close state: %v\n", err)
	}
	if execErr == nil {
		return
	}

	var initErr *config.ConfigInitError
	if errors.As(execErr, &initErr) {
		fmt.Fprintln(os.Stderr, color.YellowString(initErr.Error()))
	} else {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), execErr)
	}
	os.Exit(1)
}
